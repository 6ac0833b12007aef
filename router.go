package autocrud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hmaia/autocrud/cache"
	"github.com/hmaia/autocrud/limiter"
	"github.com/hmaia/autocrud/session"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// Router is the generated operation set for one registered model. Every
// operation runs the same pipeline: auth guard (when required), concurrency
// admission, cache lookup for reads, delegation to the repository, cache
// invalidation for writes, and unconditional slot release.
//
// Router instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Router struct {
	config   Config
	desc     *Descriptor
	repo     Repository
	verifier VerifyFunc
	cache    *cache.Store
	sessions *session.Manager
	limiter  *limiter.Limiter
	metrics  *Metrics
	audit    *auditDispatcher
}

// Descriptor returns the immutable model descriptor this router was built for.
func (r *Router) Descriptor() *Descriptor { return r.desc }

// Model returns the model name.
func (r *Router) Model() string { return r.desc.Name() }

// LoginEnabled describes the loginenabled operation and its observable behavior.
func (r *Router) LoginEnabled() bool { return r.config.Login.Enabled }

// AuthRequired describes the authrequired operation and its observable behavior.
func (r *Router) AuthRequired() bool { return r.config.Auth.Required }

// Close describes the close operation and its observable behavior.
func (r *Router) Close() {
	if r == nil {
		return
	}
	if r.audit != nil {
		r.audit.Close()
	}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (r *Router) MetricsSnapshot() MetricsSnapshot {
	if r == nil || r.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return r.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (r *Router) AuditDropped() uint64 {
	if r == nil || r.audit == nil {
		return 0
	}
	return r.audit.Dropped()
}

func (r *Router) metricInc(id MetricID) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.Inc(id)
}

func (r *Router) emitAudit(ctx context.Context, op, subject string, success bool, opErr error, fieldsFn func() map[string]string) {
	if r == nil || r.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		Model:     r.desc.Name(),
		Operation: op,
		Subject:   subject,
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if fieldsFn != nil {
		event.Metadata = fieldsFn()
	}

	r.audit.Emit(ctx, event)
}

/*
====================================
READ OPERATIONS
====================================
*/

// List returns a page of records. Identical pages served within the cache TTL
// never re-invoke the repository.
func (r *Router) List(ctx context.Context, page Page) ([]Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "list", "", false, err, nil)
		return nil, err
	}

	page, err = normalizePage(page)
	if err != nil {
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "list", subject, false, err, nil)
		return nil, err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	start := time.Now()
	defer func() {
		if r.metrics.LatencyEnabled() {
			r.metrics.Observe(MetricReadLatency, time.Since(start))
		}
	}()

	params := url.Values{}
	params.Set("offset", strconv.Itoa(page.Offset))
	params.Set("limit", strconv.Itoa(page.Limit))
	key := cache.Key("list", params)

	gen, canStore := r.cacheGeneration(ctx)

	var cached []Record
	if r.cacheLookup(ctx, key, &cached) {
		r.metricInc(MetricReadServed)
		r.emitAudit(ctx, "list", subject, true, nil, nil)
		return cached, nil
	}

	recs, err := r.repo.List(ctx, r.desc.Name(), page)
	if err != nil {
		err = wrapRepository(err)
		r.metricInc(MetricRepositoryError)
		r.emitAudit(ctx, "list", subject, false, err, nil)
		return nil, err
	}

	r.cachePopulate(ctx, key, recs, gen, canStore)
	r.metricInc(MetricReadServed)
	r.emitAudit(ctx, "list", subject, true, nil, nil)

	return recs, nil
}

// Get returns the record for id, or [ErrNotFound].
func (r *Router) Get(ctx context.Context, id any) (Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "get", "", false, err, nil)
		return nil, err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	start := time.Now()
	defer func() {
		if r.metrics.LatencyEnabled() {
			r.metrics.Observe(MetricReadLatency, time.Since(start))
		}
	}()

	params := url.Values{}
	params.Set("id", fmt.Sprint(id))
	key := cache.Key("get", params)

	gen, canStore := r.cacheGeneration(ctx)

	var cached Record
	if r.cacheLookup(ctx, key, &cached) {
		r.metricInc(MetricReadServed)
		r.emitAudit(ctx, "get", subject, true, nil, nil)
		return cached, nil
	}

	rec, err := r.repo.Find(ctx, r.desc.Name(), id)
	if err != nil {
		err = wrapRepository(err)
		if errors.Is(err, ErrNotFound) {
			r.metricInc(MetricNotFound)
		} else {
			r.metricInc(MetricRepositoryError)
		}
		r.emitAudit(ctx, "get", subject, false, err, nil)
		return nil, err
	}

	r.cachePopulate(ctx, key, rec, gen, canStore)
	r.metricInc(MetricReadServed)
	r.emitAudit(ctx, "get", subject, true, nil, nil)

	return rec, nil
}

// Count returns the total number of records for the model.
func (r *Router) Count(ctx context.Context) (int64, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "count", "", false, err, nil)
		return 0, err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return 0, err
	}
	defer r.limiter.Release()

	key := cache.Key("count", nil)
	gen, canStore := r.cacheGeneration(ctx)

	var cached int64
	if r.cacheLookup(ctx, key, &cached) {
		r.metricInc(MetricReadServed)
		r.emitAudit(ctx, "count", subject, true, nil, nil)
		return cached, nil
	}

	count, err := r.repo.Count(ctx, r.desc.Name())
	if err != nil {
		err = wrapRepository(err)
		r.metricInc(MetricRepositoryError)
		r.emitAudit(ctx, "count", subject, false, err, nil)
		return 0, err
	}

	r.cachePopulate(ctx, key, count, gen, canStore)
	r.metricInc(MetricReadServed)
	r.emitAudit(ctx, "count", subject, true, nil, nil)

	return count, nil
}

/*
====================================
WRITE OPERATIONS
====================================
*/

// Create validates payload against the descriptor, fills declared defaults and
// a missing string primary key, inserts through the repository, and
// invalidates the model's cache scope before returning.
func (r *Router) Create(ctx context.Context, payload Record) (Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "create", "", false, err, nil)
		return nil, err
	}

	if err := r.desc.ValidateCreate(payload); err != nil {
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "create", subject, false, err, nil)
		return nil, err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	rec, err := r.insertOne(ctx, payload)
	if err != nil {
		r.metricInc(MetricRepositoryError)
		r.emitAudit(ctx, "create", subject, false, err, nil)
		return nil, err
	}

	if err := r.invalidate(ctx); err != nil {
		r.emitAudit(ctx, "create", subject, false, err, nil)
		return nil, err
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "create", subject, true, nil, nil)

	return rec, nil
}

// CreateMany inserts a batch of records and invalidates the cache scope once.
// An empty batch is rejected. Records inserted before a mid-batch failure are
// not rolled back (the repository owns transactional semantics); the cache is
// still invalidated so no read can observe a pre-write snapshot.
func (r *Router) CreateMany(ctx context.Context, payloads []Record) ([]Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "create_many", "", false, err, nil)
		return nil, err
	}

	if len(payloads) == 0 {
		verr := &ValidationError{Reason: "batch is empty"}
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "create_many", subject, false, verr, nil)
		return nil, verr
	}
	for _, p := range payloads {
		if err := r.desc.ValidateCreate(p); err != nil {
			r.metricInc(MetricValidationRejected)
			r.emitAudit(ctx, "create_many", subject, false, err, nil)
			return nil, err
		}
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	out := make([]Record, 0, len(payloads))
	for _, p := range payloads {
		rec, err := r.insertOne(ctx, p)
		if err != nil {
			if len(out) > 0 {
				if ierr := r.invalidate(ctx); ierr != nil {
					log.Print("autocrud: cache invalidation failed after partial batch insert")
				}
			}
			r.metricInc(MetricRepositoryError)
			r.emitAudit(ctx, "create_many", subject, false, err, nil)
			return nil, err
		}
		out = append(out, rec)
	}

	if err := r.invalidate(ctx); err != nil {
		r.emitAudit(ctx, "create_many", subject, false, err, nil)
		return nil, err
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "create_many", subject, true, nil, func() map[string]string {
		return map[string]string{"count": strconv.Itoa(len(out))}
	})

	return out, nil
}

// Update merges only the supplied fields into the record for id. The primary
// key cannot be changed. Returns [ErrNotFound] when id has no record.
func (r *Router) Update(ctx context.Context, id any, partial Record) (Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "update", "", false, err, nil)
		return nil, err
	}

	if err := r.desc.ValidatePartial(partial); err != nil {
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "update", subject, false, err, nil)
		return nil, err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	rec, err := r.repo.Update(ctx, r.desc.Name(), id, partial.clone())
	if err != nil {
		err = wrapRepository(err)
		if errors.Is(err, ErrNotFound) {
			r.metricInc(MetricNotFound)
		} else {
			r.metricInc(MetricRepositoryError)
		}
		r.emitAudit(ctx, "update", subject, false, err, nil)
		return nil, err
	}

	if err := r.invalidate(ctx); err != nil {
		r.emitAudit(ctx, "update", subject, false, err, nil)
		return nil, err
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "update", subject, true, nil, nil)

	return rec, nil
}

// UpdateMany merges a batch of partial payloads, each carrying the primary
// key of the record it targets. Items whose record no longer exists are
// skipped; the surviving updates are applied and the cache scope is
// invalidated once. Returns the updated records in input order.
func (r *Router) UpdateMany(ctx context.Context, items []Record) ([]Record, error) {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "update_many", "", false, err, nil)
		return nil, err
	}

	if len(items) == 0 {
		verr := &ValidationError{Reason: "batch is empty"}
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "update_many", subject, false, verr, nil)
		return nil, verr
	}

	pk := r.desc.PrimaryKey().Name
	ids := make([]any, 0, len(items))
	partials := make([]Record, 0, len(items))
	for _, item := range items {
		id, ok := item[pk]
		if !ok || id == nil {
			verr := &ValidationError{Field: pk, Reason: "every batch item needs the primary key"}
			r.metricInc(MetricValidationRejected)
			r.emitAudit(ctx, "update_many", subject, false, verr, nil)
			return nil, verr
		}
		partial := item.clone()
		delete(partial, pk)
		if err := r.desc.ValidatePartial(partial); err != nil {
			r.metricInc(MetricValidationRejected)
			r.emitAudit(ctx, "update_many", subject, false, err, nil)
			return nil, err
		}
		ids = append(ids, id)
		partials = append(partials, partial)
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	out := make([]Record, 0, len(items))
	for i, partial := range partials {
		rec, err := r.repo.Update(ctx, r.desc.Name(), ids[i], partial)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			err = wrapRepository(err)
			if len(out) > 0 {
				if ierr := r.invalidate(ctx); ierr != nil {
					log.Print("autocrud: cache invalidation failed after partial batch update")
				}
			}
			r.metricInc(MetricRepositoryError)
			r.emitAudit(ctx, "update_many", subject, false, err, nil)
			return nil, err
		}
		out = append(out, rec)
	}

	if len(out) > 0 {
		if err := r.invalidate(ctx); err != nil {
			r.emitAudit(ctx, "update_many", subject, false, err, nil)
			return nil, err
		}
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "update_many", subject, true, nil, func() map[string]string {
		return map[string]string{
			"requested": strconv.Itoa(len(items)),
			"updated":   strconv.Itoa(len(out)),
		}
	})

	return out, nil
}

// Delete removes the record for id. Returns [ErrNotFound] when id has no
// record; the cache is only invalidated on a successful delete.
func (r *Router) Delete(ctx context.Context, id any) error {
	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "delete", "", false, err, nil)
		return err
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer r.limiter.Release()

	if err := r.repo.Delete(ctx, r.desc.Name(), id); err != nil {
		err = wrapRepository(err)
		if errors.Is(err, ErrNotFound) {
			r.metricInc(MetricNotFound)
		} else {
			r.metricInc(MetricRepositoryError)
		}
		r.emitAudit(ctx, "delete", subject, false, err, nil)
		return err
	}

	if err := r.invalidate(ctx); err != nil {
		r.emitAudit(ctx, "delete", subject, false, err, nil)
		return err
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "delete", subject, true, nil, nil)

	return nil
}

// DeleteMany removes a set of ids, skipping the ones that do not exist, and
// reports how many were actually deleted.
func (r *Router) DeleteMany(ctx context.Context, ids []any) (DeleteManyResult, error) {
	res := DeleteManyResult{Requested: len(ids)}

	ctx, subject, err := r.authorize(ctx)
	if err != nil {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "delete_many", "", false, err, nil)
		return res, err
	}

	if len(ids) == 0 {
		verr := &ValidationError{Reason: "id list is empty"}
		r.metricInc(MetricValidationRejected)
		r.emitAudit(ctx, "delete_many", subject, false, verr, nil)
		return res, verr
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return res, err
	}
	defer r.limiter.Release()

	for _, id := range ids {
		err := r.repo.Delete(ctx, r.desc.Name(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			err = wrapRepository(err)
			if res.Deleted > 0 {
				if ierr := r.invalidate(ctx); ierr != nil {
					log.Print("autocrud: cache invalidation failed after partial batch delete")
				}
			}
			r.metricInc(MetricRepositoryError)
			r.emitAudit(ctx, "delete_many", subject, false, err, nil)
			return res, err
		}
		res.Deleted++
	}

	if res.Deleted > 0 {
		if err := r.invalidate(ctx); err != nil {
			r.emitAudit(ctx, "delete_many", subject, false, err, nil)
			return res, err
		}
	}

	r.metricInc(MetricWriteServed)
	r.emitAudit(ctx, "delete_many", subject, true, nil, func() map[string]string {
		return map[string]string{
			"requested": strconv.Itoa(res.Requested),
			"deleted":   strconv.Itoa(res.Deleted),
		}
	})

	return res, nil
}

/*
====================================
LOGIN / LOGOUT
====================================
*/

// Login locates the record matching the configured login fields, applies the
// optional credential verifier, and mints a session token bound to the
// record's primary-key value. No session is created on failure.
func (r *Router) Login(ctx context.Context, credentials Record) (*LoginResult, error) {
	if !r.config.Login.Enabled {
		return nil, &ConfigError{Option: "Login.Enabled", Reason: "login is not enabled for this router"}
	}
	if r.sessions == nil {
		return nil, ErrRouterNotReady
	}

	match := make(Record, len(r.config.Login.Fields))
	for _, f := range r.config.Login.Fields {
		v, ok := credentials[f]
		if !ok || v == nil {
			verr := &ValidationError{Field: f, Reason: "login field is missing"}
			r.metricInc(MetricValidationRejected)
			r.emitAudit(ctx, "login", "", false, verr, nil)
			return nil, verr
		}
		match[f] = v
	}
	for f := range credentials {
		if _, ok := match[f]; !ok {
			verr := &ValidationError{Field: f, Reason: "unknown login field"}
			r.metricInc(MetricValidationRejected)
			r.emitAudit(ctx, "login", "", false, verr, nil)
			return nil, verr
		}
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.limiter.Release()

	rec, err := r.repo.FindBy(ctx, r.desc.Name(), match)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.metricInc(MetricLoginFailure)
			r.emitAudit(ctx, "login", "", false, ErrInvalidCredentials, nil)
			return nil, ErrInvalidCredentials
		}
		err = wrapRepository(err)
		r.metricInc(MetricRepositoryError)
		r.emitAudit(ctx, "login", "", false, err, nil)
		return nil, err
	}

	if r.verifier != nil && !r.verifier(credentials, rec) {
		r.metricInc(MetricLoginFailure)
		r.emitAudit(ctx, "login", "", false, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	subject := fmt.Sprint(rec[r.desc.PrimaryKey().Name])

	token, err := r.sessions.Issue(ctx, subject)
	if err != nil {
		r.metricInc(MetricLoginFailure)
		r.emitAudit(ctx, "login", subject, false, err, nil)
		return nil, wrapRepository(err)
	}

	view := make(Record, len(r.config.Login.Fields))
	for _, f := range r.config.Login.Fields {
		view[f] = rec[f]
	}

	r.metricInc(MetricSessionIssued)
	r.metricInc(MetricLoginSuccess)
	r.emitAudit(ctx, "login", subject, true, nil, nil)

	return &LoginResult{Token: token, Subject: view}, nil
}

// Logout revokes the bearer token carried in ctx. The only credential needed
// is possession of that token. Idempotent: revoking an unknown or
// already-revoked token succeeds with no further effect.
func (r *Router) Logout(ctx context.Context) error {
	if r.sessions == nil {
		return ErrRouterNotReady
	}

	token := bearerTokenFromContext(ctx)
	if token == "" {
		r.metricInc(MetricAuthRejected)
		r.emitAudit(ctx, "logout", "", false, ErrUnauthenticated, nil)
		return ErrUnauthenticated
	}

	if err := r.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, session.ErrTokenInvalid) {
			r.metricInc(MetricAuthRejected)
			r.emitAudit(ctx, "logout", "", false, ErrUnauthenticated, nil)
			return ErrUnauthenticated
		}
		err = wrapRepository(err)
		r.emitAudit(ctx, "logout", "", false, err, nil)
		return err
	}

	r.metricInc(MetricLogout)
	r.emitAudit(ctx, "logout", "", true, nil, nil)

	return nil
}

/*
====================================
INTERNAL HELPERS
====================================
*/

func (r *Router) insertOne(ctx context.Context, payload Record) (Record, error) {
	rec := r.desc.ApplyDefaults(payload)

	// Server-assigned identifier: a missing string primary key gets a UUID
	// before insert so the created record round-trips by id immediately.
	pk := r.desc.PrimaryKey()
	if pk.Kind == KindString {
		if _, present := rec[pk.Name]; !present {
			rec[pk.Name] = uuid.NewString()
		}
	}

	out, err := r.repo.Insert(ctx, r.desc.Name(), rec)
	if err != nil {
		return nil, wrapRepository(err)
	}
	return out, nil
}

// cacheLookup reports a hit and decodes into dst. A degraded cache backend is
// treated as a miss so reads fall through to the repository.
func (r *Router) cacheLookup(ctx context.Context, key string, dst any) bool {
	data, hit, err := r.cache.Get(ctx, r.desc.Name(), key)
	if err != nil {
		r.metricInc(MetricCacheDegraded)
		log.Print("autocrud: cache read failed, serving from repository")
		return false
	}
	if !hit {
		r.metricInc(MetricCacheMiss)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		r.metricInc(MetricCacheDegraded)
		log.Print("autocrud: corrupt cache entry ignored")
		return false
	}

	r.metricInc(MetricCacheHit)
	return true
}

// cacheGeneration snapshots the model's invalidation generation before the
// repository read. The store only accepts the later population if no write
// invalidated the model in between, so a read that overlaps a write cannot
// leave the pre-write value in the cache. A degraded backend disables
// population for this read; the lookup still falls through to the repository.
func (r *Router) cacheGeneration(ctx context.Context) (int64, bool) {
	if !r.cache.Enabled() {
		return 0, false
	}

	gen, err := r.cache.Generation(ctx, r.desc.Name())
	if err != nil {
		r.metricInc(MetricCacheDegraded)
		log.Print("autocrud: cache generation read failed, skipping population")
		return 0, false
	}
	return gen, true
}

// cachePopulate is best-effort: a failed population never fails the read that
// produced the value.
func (r *Router) cachePopulate(ctx context.Context, key string, value any, gen int64, canStore bool) {
	if !canStore || !r.cache.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Print("autocrud: cache population skipped, value not serializable")
		return
	}
	if err := r.cache.Put(ctx, r.desc.Name(), key, data, gen); err != nil {
		r.metricInc(MetricCacheDegraded)
		log.Print("autocrud: cache population failed")
	}
}

// invalidate clears the model's cache scope after a successful write. Unlike
// population it is not best-effort: a failed invalidation is surfaced, because
// entries that survive it would serve stale data once the backend recovers.
func (r *Router) invalidate(ctx context.Context) error {
	if !r.cache.Enabled() {
		return nil
	}
	if err := r.cache.Invalidate(ctx, r.desc.Name()); err != nil {
		r.metricInc(MetricCacheDegraded)
		return fmt.Errorf("%w: cache invalidation failed: %v", ErrRepository, err)
	}
	r.metricInc(MetricCacheInvalidate)
	return nil
}

func normalizePage(page Page) (Page, error) {
	if page.Offset < 0 {
		return page, &ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	if page.Limit == 0 {
		page.Limit = defaultPageLimit
	}
	if page.Limit < 0 || page.Limit > maxPageLimit {
		return page, &ValidationError{
			Field:  "limit",
			Reason: fmt.Sprintf("must be between 1 and %d", maxPageLimit),
		}
	}
	return page, nil
}
