package storage

import "autoscout-scraper/models"

// CarWriter is the interface any cleaned-data storage backend must satisfy.
type CarWriter interface {
	WriteCars(cars []*models.Car) error
	Close() error
}

// RawCarWriter is the interface for persisting the unprocessed raw dataset.
type RawCarWriter interface {
	WriteRaw(cars []*models.RawCar) error
	Close() error
}
