package dataset

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/godilite/survey-dashboard/internal/survey"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrPartFailed means one part of a multi-part dataset could not be fetched.
// The whole load fails; a partial dataset is never returned.
var ErrPartFailed = errors.New("dataset part failed")

// Dataset is an immutable, normalized snapshot of one survey type.
type Dataset struct {
	Type        survey.Type
	Parts       []string
	Records     []survey.Response
	Skipped     int
	Undated     int
	Fingerprint uint64
	LoadedAt    time.Time
}

// ID is the hex form of the fingerprint. Two datasets with the same records
// share an ID.
func (d *Dataset) ID() string {
	return strconv.FormatUint(d.Fingerprint, 16)
}

// Loader fetches every part of a survey type concurrently and normalizes the
// concatenation.
type Loader struct {
	source      Source
	layout      Layout
	partTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

type LoaderOption func(*Loader)

// WithPartTimeout bounds every part fetch.
func WithPartTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.partTimeout = d }
}

func NewLoader(source Source, layout Layout, logger *zap.Logger, opts ...LoaderOption) *Loader {
	if source == nil {
		panic("source cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if layout == nil {
		layout = DefaultLayout()
	}

	l := &Loader{
		source:      source,
		layout:      layout,
		partTimeout: 30 * time.Second,
		logger:      logger.Named("dataset-loader"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Parts returns the part names of t.
func (l *Loader) Parts(t survey.Type) ([]string, error) {
	return l.layout.Parts(t)
}

// Load fetches and normalizes the dataset of t.
func (l *Loader) Load(ctx context.Context, t survey.Type) (*Dataset, error) {
	parts, err := l.layout.Parts(t)
	if err != nil {
		return nil, err
	}

	start := l.now()
	raw := make([][]survey.RawRecord, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, l.partTimeout)
			defer cancel()

			records, err := l.source.FetchPart(pctx, part)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrPartFailed, part, err)
			}
			raw[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		l.logger.Error("Failed to load dataset",
			zap.String("survey_type", string(t)),
			zap.Error(err))
		return nil, err
	}

	ds := &Dataset{Type: t, Parts: parts, Records: []survey.Response{}, LoadedAt: l.now()}
	for _, records := range raw {
		for _, rec := range records {
			r, err := survey.Normalize(rec)
			switch {
			case errors.Is(err, survey.ErrBadEntryDate):
				ds.Undated++
			case err != nil:
				ds.Skipped++
				continue
			}
			ds.Records = append(ds.Records, r)
		}
	}
	ds.Fingerprint = Fingerprint(t, ds.Records)

	if ds.Skipped > 0 {
		l.logger.Warn("Skipped invalid records",
			zap.String("survey_type", string(t)),
			zap.Int("skipped", ds.Skipped))
	}
	if ds.Undated > 0 {
		l.logger.Warn("Kept records with unreadable entry dates",
			zap.String("survey_type", string(t)),
			zap.Int("undated", ds.Undated))
	}
	l.logger.Info("Loaded dataset",
		zap.String("survey_type", string(t)),
		zap.Strings("parts", parts),
		zap.Int("records", len(ds.Records)),
		zap.Duration("duration", l.now().Sub(start)))

	return ds, nil
}

// Fingerprint digests the normalized records of a dataset.
func Fingerprint(t survey.Type, records []survey.Response) uint64 {
	h := xxhash.New()
	write := func(s string) {
		h.WriteString(s)
		h.Write([]byte{0})
	}

	write(string(t))
	var buf [8]byte
	for _, r := range records {
		write(r.RespondentID)
		write(r.Question)
		write(string(r.Answer))
		write(r.Sector)
		write(r.Course)
		write(r.Discipline)
		write(r.Department)
		write(r.ProfessorCode)
		var ms int64
		if !r.EntryDate.IsZero() {
			ms = r.EntryDate.UnixMilli()
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(ms))
		h.Write(buf[:])
	}
	return h.Sum64()
}
