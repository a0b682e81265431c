// Package services – PointOfInterestService
//
// This file implements the CRUD use-cases for points of interest. Every
// operation first checks that the owning city exists and short-circuits with
// ErrCityNotFound before touching points of interest. Writes go through a
// unit of work and become durable on Commit.
//
// PATCH is patch-then-validate: the stored entity is projected onto the
// update document, the JSON Patch is applied to that copy, the copy is
// validated, and only a valid result is written back to the entity.
//
// Deletions trigger a notification after the commit. The notification is
// best-effort: failures and panics are logged and never change the result.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/dto"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

// Notifier delivers a short message to an operator channel (mail, broker,
// log). Implementations must honor ctx.
type Notifier interface {
	Send(ctx context.Context, subject, message string) error
}

// DeletedSubject is the subject of the notification sent after a deletion.
const DeletedSubject = "Point of interest deleted."

const defaultNotifyTimeout = 5 * time.Second

// PointOfInterestService implements the point of interest use-cases.
type PointOfInterestService struct {
	Repos    RepositoryFactory
	Notifier Notifier

	// NotifyTimeout bounds the post-delete notification. Zero means 5s.
	NotifyTimeout time.Duration
}

// NewPointOfInterestService wires the service. notifier may be nil, in which
// case deletions are not announced.
func NewPointOfInterestService(repos RepositoryFactory, notifier Notifier, notifyTimeout time.Duration) *PointOfInterestService {
	return &PointOfInterestService{Repos: repos, Notifier: notifier, NotifyTimeout: notifyTimeout}
}

func (s *PointOfInterestService) start(ctx context.Context, name string, cityID int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.Int("city.id", cityID))
	return otel.Tracer("services/PointOfInterestService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// requireCity returns ErrCityNotFound when cityID does not exist.
func requireCity(ctx context.Context, r Repository, cityID int) error {
	ok, err := r.CityExists(ctx, cityID)
	if err != nil {
		return err
	}
	if !ok {
		zerolog.Ctx(ctx).Info().Int("city_id", cityID).
			Msg("city wasn't found when accessing points of interest")
		return ErrCityNotFound
	}
	return nil
}

// load resolves a point of interest of an existing city inside r.
func load(ctx context.Context, r Repository, cityID, id int) (*domain.PointOfInterest, error) {
	if err := requireCity(ctx, r, cityID); err != nil {
		return nil, err
	}
	p, err := r.GetPointOfInterest(ctx, cityID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPointOfInterestNotFound
	}
	return p, nil
}

func commit(ctx context.Context, r Repository) error {
	ok, err := r.Commit(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCommitFailed
	}
	return nil
}

// commitUpdate saves a pending update. Zero affected rows is success: MySQL
// reports changed rows, so rewriting the stored values affects none.
func commitUpdate(ctx context.Context, r Repository) error {
	_, err := r.Commit(ctx)
	return err
}

// List returns the points of interest of a city.
func (s *PointOfInterestService) List(ctx context.Context, cityID int) ([]domain.PointOfInterest, error) {
	ctx, span := s.start(ctx, "List", cityID)
	defer span.End()

	r := s.Repos()
	if err := requireCity(ctx, r, cityID); err != nil {
		return nil, err
	}
	return r.ListPointsOfInterest(ctx, cityID)
}

// Get returns a single point of interest of a city.
func (s *PointOfInterestService) Get(ctx context.Context, cityID, id int) (*domain.PointOfInterest, error) {
	ctx, span := s.start(ctx, "Get", cityID, attribute.Int("poi.id", id))
	defer span.End()

	return load(ctx, s.Repos(), cityID, id)
}

// Create validates in, attaches a new point of interest to the city and
// commits. The returned entity carries the store-assigned id.
func (s *PointOfInterestService) Create(ctx context.Context, cityID int, in dto.PointOfInterestForCreation) (*domain.PointOfInterest, error) {
	ctx, span := s.start(ctx, "Create", cityID)
	defer span.End()

	if errs := validation.Validate(in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	r := s.Repos()
	if err := requireCity(ctx, r, cityID); err != nil {
		return nil, err
	}

	poi := dto.NewPointOfInterest(in)
	if err := r.AddPointOfInterest(ctx, cityID, &poi); err != nil {
		return nil, err
	}
	if err := commit(ctx, r); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("poi.id", poi.ID))
	return &poi, nil
}

// Update replaces every mutable field of a point of interest.
func (s *PointOfInterestService) Update(ctx context.Context, cityID, id int, in dto.PointOfInterestForUpdate) error {
	ctx, span := s.start(ctx, "Update", cityID, attribute.Int("poi.id", id))
	defer span.End()

	if errs := validation.Validate(in); errs != nil {
		return &ValidationError{Fields: errs}
	}

	r := s.Repos()
	poi, err := load(ctx, r, cityID, id)
	if err != nil {
		return err
	}
	dto.ApplyUpdate(in, poi)
	r.UpdatePointOfInterest(poi)
	return commitUpdate(ctx, r)
}

// Patch applies an RFC 6902 document to a point of interest. The entity is
// only modified when the patched document is valid.
func (s *PointOfInterestService) Patch(ctx context.Context, cityID, id int, document []byte) error {
	ctx, span := s.start(ctx, "Patch", cityID, attribute.Int("poi.id", id))
	defer span.End()

	r := s.Repos()
	poi, err := load(ctx, r, cityID, id)
	if err != nil {
		return err
	}

	patched, err := dto.ApplyPatch(dto.ToPointOfInterestForUpdate(*poi), document)
	if err != nil {
		var pe *dto.PatchError
		if errors.As(err, &pe) {
			return &ValidationError{Fields: []validation.FieldError{{Message: pe.Error()}}}
		}
		return err
	}
	if errs := validation.Validate(patched); errs != nil {
		return &ValidationError{Fields: errs}
	}

	dto.ApplyUpdate(patched, poi)
	r.UpdatePointOfInterest(poi)
	return commitUpdate(ctx, r)
}

// Delete removes a point of interest and then announces the deletion.
func (s *PointOfInterestService) Delete(ctx context.Context, cityID, id int) error {
	ctx, span := s.start(ctx, "Delete", cityID, attribute.Int("poi.id", id))
	defer span.End()

	r := s.Repos()
	poi, err := load(ctx, r, cityID, id)
	if err != nil {
		return err
	}
	r.RemovePointOfInterest(poi)
	if err := commit(ctx, r); err != nil {
		return err
	}

	s.notifyDeleted(ctx, *poi)
	return nil
}

// notifyDeleted sends the deletion notice. It never returns an error and
// never panics; the request's cancellation does not abort the send, the
// NotifyTimeout does.
func (s *PointOfInterestService) notifyDeleted(ctx context.Context, poi domain.PointOfInterest) {
	if s.Notifier == nil {
		return
	}
	lg := zerolog.Ctx(ctx)
	span := trace.SpanFromContext(ctx)

	timeout := s.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			span.SetStatus(codes.Error, "notification panicked")
			lg.Error().Interface("panic", rec).Int("poi_id", poi.ID).Msg("deletion notification panicked")
		}
	}()

	msg := fmt.Sprintf("Point of interest %s with Id %d has been deleted!", poi.Name, poi.ID)
	if err := s.Notifier.Send(nctx, DeletedSubject, msg); err != nil {
		span.RecordError(err)
		lg.Warn().Err(err).Int("poi_id", poi.ID).Int("city_id", poi.CityID).Msg("deletion notification failed")
	}
}
