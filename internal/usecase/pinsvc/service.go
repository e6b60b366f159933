package pinsvc

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/pinataclient"
)

// Service объединяет операции пиннинга и анпиннинга через Pinata.
type Service interface {
	Pin(ctx context.Context, mr *multipart.Reader) (models.PinResult, error)
	Unpin(ctx context.Context, cid string) error
	Health(ctx context.Context) error
}

// Options управляют фильтрацией частей и построением путей в исходящей форме.
type Options struct {
	Fields        []string
	PreservePaths bool
	WrapDirectory bool
	CIDVersion    int
	ValidateCID   bool
}

type Deps struct {
	Client pinataclient.Client
	Options
}

type Pins struct {
	Deps
	fields map[string]struct{}
}

// New конструирует сервис пиннинга с заданными зависимостями.
func New(deps Deps) *Pins {
	fields := make(map[string]struct{}, len(deps.Fields))
	for _, f := range deps.Fields {
		if f = strings.TrimSpace(f); f != "" {
			fields[f] = struct{}{}
		}
	}

	return &Pins{Deps: deps, fields: fields}
}

var _ Service = (*Pins)(nil)
