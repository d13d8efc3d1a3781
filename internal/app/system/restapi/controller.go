// Package restapi is the generic resource controller behind /api/.
//
// One Controller serves one collection. It owns no entity knowledge: the
// Store enforces integrity and the Serializer maps records to and from the
// wire. The Registry lists controllers in registration order and is read
// by both the router and the API directory.
package restapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/limits"
	"github.com/dalemusser/fittrack/internal/app/system/metrics"
	"github.com/dalemusser/fittrack/internal/app/system/reqlog"
	"github.com/dalemusser/fittrack/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the entity collection a controller serves.
type Store[M any] interface {
	List(ctx context.Context, f entities.Filter) ([]M, error)
	Get(ctx context.Context, id primitive.ObjectID) (M, error)
	Create(ctx context.Context, rec M) (M, error)
	Update(ctx context.Context, rec M) (M, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Serializer maps records of type M to wire values of type W and back.
type Serializer[M, W any] interface {
	// Represent maps rows to their wire form, resolving display fields of
	// referenced records in one pass.
	Represent(ctx context.Context, rows []M) ([]W, error)

	// Decode applies a request body onto rec. When partial is false every
	// writable field is replaced and required ones must be present; when
	// true, absent fields keep their current value. Read-only fields in
	// the body are ignored.
	Decode(body []byte, rec *M, partial bool) error

	// Filters names the query parameters List accepts. Each carries an id.
	Filters() []string
}

// Controller serves CRUD for one resource.
type Controller[M, W any] struct {
	name  string
	store Store[M]
	ser   Serializer[M, W]
	log   *zap.Logger
}

// NewController builds the controller for resource name.
func NewController[M, W any](name string, store Store[M], ser Serializer[M, W], logger *zap.Logger) *Controller[M, W] {
	return &Controller[M, W]{name: name, store: store, ser: ser, log: logger}
}

// Name is the resource's path segment under /api/.
func (c *Controller[M, W]) Name() string { return c.name }

// Routes mounts under /api/<name>. Paths are accepted with and without a
// trailing slash.
func (c *Controller[M, W]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handle("list", timeouts.Medium, c.list))
	r.Post("/", c.handle("create", timeouts.Medium, c.create))
	for _, p := range []string{"/{id}", "/{id}/"} {
		r.Get(p, c.handle("retrieve", timeouts.Short, c.retrieve))
		r.Put(p, c.handle("update", timeouts.Medium, c.update(false)))
		r.Patch(p, c.handle("partial_update", timeouts.Medium, c.update(true)))
		r.Delete(p, c.handle("destroy", timeouts.Long, c.destroy))
	}
	return r
}

// opFunc performs one operation. A nil body with no error writes only the
// status.
type opFunc func(ctx context.Context, r *http.Request) (status int, body any, err error)

func (c *Controller[M, W]) handle(op string, bound func() time.Duration, fn opFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, cancel := timeouts.WithTimeout(r.Context(), bound(), c.log, c.name+" "+op)
		defer cancel()

		status, body, err := fn(ctx, r)
		switch {
		case err != nil:
			status = writeError(w, err)
			c.logFailure(r, op, status, err)
		case body == nil:
			w.WriteHeader(status)
		default:
			writeJSON(w, status, body)
		}
		metrics.ObserveRequest(c.name, op, status, time.Since(start))
	}
}

func (c *Controller[M, W]) logFailure(r *http.Request, op string, status int, err error) {
	fields := []zap.Field{
		zap.String("resource", c.name),
		zap.String("operation", op),
		zap.String("id", chi.URLParam(r, "id")),
		zap.String("request_id", reqlog.ID(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		c.log.Error("resource request failed", fields...)
		return
	}
	c.log.Debug("resource request rejected", fields...)
}

func (c *Controller[M, W]) list(ctx context.Context, r *http.Request) (int, any, error) {
	f, err := c.filter(r)
	if err != nil {
		return 0, nil, err
	}
	rows, err := c.store.List(ctx, f)
	if err != nil {
		return 0, nil, err
	}
	out, err := c.ser.Represent(ctx, rows)
	if err != nil {
		return 0, nil, err
	}
	if out == nil {
		out = []W{}
	}
	return http.StatusOK, out, nil
}

func (c *Controller[M, W]) retrieve(ctx context.Context, r *http.Request) (int, any, error) {
	id, err := idcodec.Decode(chi.URLParam(r, "id"))
	if err != nil {
		return 0, nil, err
	}
	rec, err := c.store.Get(ctx, id)
	if err != nil {
		return 0, nil, err
	}
	return c.one(ctx, http.StatusOK, rec)
}

func (c *Controller[M, W]) create(ctx context.Context, r *http.Request) (int, any, error) {
	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	var rec M
	if err := c.ser.Decode(body, &rec, false); err != nil {
		return 0, nil, err
	}
	created, err := c.store.Create(ctx, rec)
	if err != nil {
		return 0, nil, err
	}
	return c.one(ctx, http.StatusCreated, created)
}

// update applies the body onto the stored record, so the id and any
// server-managed fields carry over.
func (c *Controller[M, W]) update(partial bool) opFunc {
	return func(ctx context.Context, r *http.Request) (int, any, error) {
		id, err := idcodec.Decode(chi.URLParam(r, "id"))
		if err != nil {
			return 0, nil, err
		}
		body, err := readBody(r)
		if err != nil {
			return 0, nil, err
		}
		rec, err := c.store.Get(ctx, id)
		if err != nil {
			return 0, nil, err
		}
		if err := c.ser.Decode(body, &rec, partial); err != nil {
			return 0, nil, err
		}
		updated, err := c.store.Update(ctx, rec)
		if err != nil {
			return 0, nil, err
		}
		return c.one(ctx, http.StatusOK, updated)
	}
}

func (c *Controller[M, W]) destroy(ctx context.Context, r *http.Request) (int, any, error) {
	id, err := idcodec.Decode(chi.URLParam(r, "id"))
	if err != nil {
		return 0, nil, err
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return 0, nil, err
	}
	return http.StatusNoContent, nil, nil
}

func (c *Controller[M, W]) one(ctx context.Context, status int, rec M) (int, any, error) {
	out, err := c.ser.Represent(ctx, []M{rec})
	if err != nil {
		return 0, nil, err
	}
	if len(out) != 1 {
		return 0, nil, apierr.ErrNotFound
	}
	return status, out[0], nil
}

// filter reads the serializer's query parameters. Blank values are
// ignored; malformed ids fail with ErrInvalidIdentifier.
func (c *Controller[M, W]) filter(r *http.Request) (entities.Filter, error) {
	q := r.URL.Query()
	var f entities.Filter
	for _, key := range c.ser.Filters() {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		id, err := idcodec.Decode(raw)
		if err != nil {
			return nil, err
		}
		if f == nil {
			f = entities.Filter{}
		}
		f[key] = id
	}
	return f, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, limits.MaxResourceBody+1))
	if err != nil {
		return nil, apierr.Invalid("non_field_errors", "Could not read request body.")
	}
	if len(body) > limits.MaxResourceBody {
		return nil, apierr.Invalid("non_field_errors", "Request body too large.")
	}
	return body, nil
}
