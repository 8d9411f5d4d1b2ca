package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"drfind/internal/database"
	"drfind/internal/models"
	"drfind/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ImportFile is the YAML layout accepted by the importer.
type ImportFile struct {
	Profile *struct {
		FullName string `yaml:"full_name"`
		Contact  string `yaml:"contact"`
	} `yaml:"profile"`
	Bookings []struct {
		ID          string    `yaml:"id"`
		PlaceID     string    `yaml:"place_id"`
		PlaceName   string    `yaml:"place_name"`
		Date        time.Time `yaml:"date"`
		UserName    string    `yaml:"user_name"`
		UserContact string    `yaml:"user_contact"`
		Note        *string   `yaml:"note"`
	} `yaml:"bookings"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		inputPath = flag.String("input", "configs/bookings.yaml", "path to bookings yaml")
		dbPath    = flag.String("db", "./data/drfind.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var in ImportFile
	if err = yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if len(in.Bookings) == 0 && in.Profile == nil {
		return fmt.Errorf("nothing to import")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	persister := store.NewWriteThrough(db, &logger)

	if in.Profile != nil {
		profile := store.NewProfileStore(ctx, db, persister, nil, &logger)
		profile.Update(ctx, models.Profile{FullName: in.Profile.FullName, Contact: in.Profile.Contact})
	}

	bookings := store.NewBookingsStore(ctx, db, persister, &logger)

	created := 0
	skipped := 0
	// walk backwards so the stored list keeps the file order
	for i := len(in.Bookings) - 1; i >= 0; i-- {
		b := in.Bookings[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if _, ok := bookings.Get(b.ID); ok {
			skipped++
			continue
		}
		if b.PlaceID == "" {
			b.PlaceID = b.PlaceName
		}
		bookings.Add(ctx, models.Booking{
			ID:          b.ID,
			PlaceID:     b.PlaceID,
			PlaceName:   b.PlaceName,
			Date:        b.Date,
			UserName:    b.UserName,
			UserContact: b.UserContact,
			Note:        b.Note,
		})
		created++
	}

	fmt.Printf("done: created=%d skipped=%d total=%d\n", created, skipped, bookings.Len())
	return nil
}
