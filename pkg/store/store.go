package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/change-monitor/pkg/logger"
)

var bucketProfiles = []byte("profiles") // Name -> Profile JSON

// boltStore implements the Store interface using BoltDB.
type boltStore struct {
	db     *bolt.DB
	logger logger.Logger
}

// Open opens or creates the profile database.
func Open(cfg Config, log logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	dbPath := expandHome(cfg.Path)

	// Create directory if it doesn't exist.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, createErr := tx.CreateBucketIfNotExists(bucketProfiles); createErr != nil {
			return fmt.Errorf("failed to create profiles bucket: %w", createErr)
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after initialization error",
				"error", closeErr)
		}
		return nil, err
	}

	log.Debug("profile store opened", "db_path", dbPath)

	return &boltStore{
		db:     db,
		logger: log,
	}, nil
}

// Save implements Store.Save.
func (s *boltStore) Save(profile *Profile) error {
	if profile == nil {
		return ErrInvalidProfile
	}
	if profile.Name == "" {
		return ErrEmptyName
	}
	if err := profile.Watch.Validate(); err != nil {
		return fmt.Errorf("invalid watch config: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProfiles)

		now := time.Now()
		profile.CreatedAt = now

		// Preserve the original creation time on overwrite.
		if existing := b.Get([]byte(profile.Name)); existing != nil {
			var prev Profile
			if unmarshalErr := json.Unmarshal(existing, &prev); unmarshalErr == nil {
				profile.CreatedAt = prev.CreatedAt
			}
		}
		profile.UpdatedAt = now

		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}

		if err := b.Put([]byte(profile.Name), data); err != nil {
			return fmt.Errorf("failed to store profile: %w", err)
		}

		s.logger.Info("profile saved", "name", profile.Name)
		return nil
	})
}

// Get implements Store.Get.
func (s *boltStore) Get(name string) (*Profile, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	var profile *Profile

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProfiles)

		data := b.Get([]byte(name))
		if data == nil {
			return ErrProfileNotFound
		}

		var p Profile
		if unmarshalErr := json.Unmarshal(data, &p); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal profile: %w", unmarshalErr)
		}

		profile = &p
		return nil
	})

	if err != nil {
		return nil, err
	}

	return profile, nil
}

// List implements Store.List. Bucket keys are the profile names, so
// iteration order is already name order.
func (s *boltStore) List() ([]*Profile, error) {
	profiles := make([]*Profile, 0, 10)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProfiles)

		return b.ForEach(func(k, v []byte) error {
			var p Profile
			if unmarshalErr := json.Unmarshal(v, &p); unmarshalErr != nil {
				s.logger.Warn("failed to unmarshal profile",
					"name", string(k),
					"error", unmarshalErr)
				return nil // Skip invalid entries.
			}

			profiles = append(profiles, &p)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// Delete implements Store.Delete.
func (s *boltStore) Delete(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProfiles)

		if b.Get([]byte(name)) == nil {
			return ErrProfileNotFound
		}

		if err := b.Delete([]byte(name)); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		s.logger.Info("profile deleted", "name", name)
		return nil
	})
}

// Close implements Store.Close.
func (s *boltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
