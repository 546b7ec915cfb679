package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/crawling"
	"github.com/jonathan/profile2pdf/internal/ingestion"
	"github.com/jonathan/profile2pdf/internal/mock"
	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/parsing"
	"github.com/jonathan/profile2pdf/internal/skills"
	"github.com/jonathan/profile2pdf/internal/types"
)

// DefaultMaxParallelReferences bounds concurrent reference crawls
const DefaultMaxParallelReferences = 4

// Request is one aggregation request.
type Request struct {
	ProfileURL    string           `json:"profileUrl" validate:"required"`
	ReferenceURLs []string         `json:"referenceUrls" validate:"max=10"`
	OnProgress    ProgressCallback `json:"-"`
}

// Options configures an Aggregator.
type Options struct {
	// MaxParallelReferences bounds concurrent reference crawls; <= 0 uses the default
	MaxParallelReferences int
	// PreserveFetchedReferences keeps successfully crawled references when
	// the profile falls back to generated data. When false, or when no
	// credential is set, every reference is generated too.
	PreserveFetchedReferences bool
}

// DefaultOptions returns the default aggregation options.
func DefaultOptions() Options {
	return Options{
		MaxParallelReferences:     DefaultMaxParallelReferences,
		PreserveFetchedReferences: true,
	}
}

// Aggregator runs validating_input → fetching_profile → fetching_references
// → merging_skills → done, diverting to error_fallback when the profile
// cannot be fetched. Only an invalid profile URL is reported as an error.
type Aggregator struct {
	crawler   crawling.Crawler
	extractor *parsing.Extractor
	mock      *mock.Generator
	opts      Options
	logger    observability.Logger
	now       func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(crawler crawling.Crawler, generator *mock.Generator, opts Options, logger observability.Logger) *Aggregator {
	if logger == nil {
		logger = observability.NewNop()
	}
	if opts.MaxParallelReferences <= 0 {
		opts.MaxParallelReferences = DefaultMaxParallelReferences
	}
	return &Aggregator{
		crawler:   crawler,
		extractor: parsing.NewExtractor(logger),
		mock:      generator,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// run carries the per-request progress plumbing.
type run struct {
	mu         sync.Mutex
	onProgress ProgressCallback
}

// emit serializes callback invocations, reference crawls report concurrently.
func (r *run) emit(state State, url, message string, content any) {
	if r.onProgress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onProgress(ProgressEvent{State: state, URL: url, Message: message, Content: content})
}

// Fetch aggregates the profile at req.ProfileURL and its reference sites.
func (a *Aggregator) Fetch(ctx context.Context, req Request) (*types.AggregatedFetchResult, error) {
	r := &run{onProgress: req.OnProgress}
	log := a.logger.With(zap.String("profile_url", req.ProfileURL))

	r.emit(StateValidatingInput, req.ProfileURL, "Validating input", nil)
	if !ingestion.IsProfileURL(req.ProfileURL) {
		return nil, fmt.Errorf("%w: %q is not an X/Twitter profile URL", ingestion.ErrInvalidURL, req.ProfileURL)
	}
	targets := ingestion.ReferenceTargets(req.ReferenceURLs)

	r.emit(StateFetchingProfile, req.ProfileURL, "Fetching profile", nil)
	profile, err := a.fetchProfile(ctx, req.ProfileURL)
	if err != nil {
		log.Warn("profile fetch failed, falling back to generated data", zap.Error(err))
		return a.fallback(ctx, r, req, targets, err)
	}

	r.emit(StateFetchingReferences, "", fmt.Sprintf("Fetching %d reference sites", len(targets)), nil)
	refs := a.fetchReferences(ctx, r, targets)

	r.emit(StateMergingSkills, "", "Merging skills", nil)
	lists := [][]string{profile.Skills}
	for _, ref := range refs {
		lists = append(lists, ref.ExtractedSkills)
	}
	profile.Skills = skills.Merge(lists...)

	result := &types.AggregatedFetchResult{Profile: *profile, References: refs}
	r.emit(StateDone, req.ProfileURL, "Profile fetched", result)
	log.Info("profile aggregated",
		zap.Int("references", len(refs)),
		zap.Int("dropped_references", len(targets)-len(refs)),
		zap.Int("skills", len(profile.Skills)))
	return result, nil
}

func (a *Aggregator) fetchProfile(ctx context.Context, url string) (*types.ProfileRecord, error) {
	result, err := a.crawler.Crawl(ctx, url, crawling.ProfileOptions())
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &crawling.ProviderError{Message: result.Error}
	}
	return a.extractor.ExtractProfile(result.Records, url)
}

func (a *Aggregator) fetchReference(ctx context.Context, url string) (types.ReferenceRecord, error) {
	result, err := a.crawler.Crawl(ctx, url, crawling.ReferenceOptions())
	if err != nil {
		return types.ReferenceRecord{}, err
	}
	if !result.Success {
		return types.ReferenceRecord{}, &crawling.ProviderError{Message: result.Error}
	}
	return *a.extractor.ExtractReference(result.Records, url, a.now()), nil
}

// fetchReferences crawls every target concurrently and keeps the successes in target order.
func (a *Aggregator) fetchReferences(ctx context.Context, r *run, targets []string) []types.ReferenceRecord {
	outcomes := SettleAll(ctx, targets, a.opts.MaxParallelReferences, func(ctx context.Context, url string) (types.ReferenceRecord, error) {
		ref, err := a.fetchReference(ctx, url)
		if err != nil {
			a.logger.Warn("reference dropped", zap.String("url", url), zap.Error(err))
			r.emit(StateFetchingReferences, url, "Reference could not be fetched, skipping", nil)
			return ref, err
		}
		r.emit(StateFetchingReferences, url, "Reference fetched", nil)
		return ref, nil
	})

	refs, _ := Partition(outcomes)
	if refs == nil {
		refs = []types.ReferenceRecord{}
	}
	return refs
}

// fallback builds the synthetic result. The profile is always generated.
// References are crawled for real unless the credential is missing or
// preservation is off, in which case every original reference URL is generated.
func (a *Aggregator) fallback(ctx context.Context, r *run, req Request, targets []string, cause error) (*types.AggregatedFetchResult, error) {
	r.emit(StateErrorFallback, req.ProfileURL, "Profile could not be fetched, using generated sample data", nil)

	profile, err := a.mock.Profile(req.ProfileURL)
	if err != nil {
		return nil, err
	}

	var refs []types.ReferenceRecord
	if a.opts.PreserveFetchedReferences && !errors.Is(cause, crawling.ErrMissingCredential) {
		refs = a.fetchReferences(ctx, r, targets)
	} else {
		refs = make([]types.ReferenceRecord, 0, len(req.ReferenceURLs))
		for _, url := range req.ReferenceURLs {
			refs = append(refs, *a.mock.Reference(url))
		}
	}

	result := &types.AggregatedFetchResult{Profile: *profile, References: refs, Synthetic: true}
	r.emit(StateDone, req.ProfileURL, "Generated sample profile", result)
	return result, nil
}
