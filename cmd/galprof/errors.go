package main

import (
	"errors"
	"io/fs"

	"github.com/san-kum/galprof/internal/config"
	"github.com/san-kum/galprof/internal/dynamics"
	"github.com/san-kum/galprof/internal/filter"
	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/snapshot"
	"github.com/san-kum/galprof/internal/storage"
)

// category names the class of a command error for the exit message.
func category(err error) string {
	var werr *profile.WriteError
	switch {
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, profile.ErrInvalidConfig),
		errors.Is(err, snapshot.ErrInvalidParameters),
		errors.Is(err, snapshot.ErrUnknownSpecies),
		errors.Is(err, filter.ErrUnknownKind),
		errors.Is(err, filter.ErrUnsupported):
		return "configuration error"
	case errors.Is(err, dynamics.ErrDomain):
		return "domain error"
	case errors.As(err, &werr),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrAmbiguous),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return "i/o error"
	}
	return "error"
}
