package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/analysis"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/textgen"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

const (
	// NeutralScore is substituted for a dimension whose analyzer failed.
	NeutralScore = 50

	failedAnalysisTemplate    = "%s analysis failed"
	missingWebsiteTemplate    = "lead %d has no website to audit"
	panicTemplate             = "analyzer panic: %v"
	missingAnalyzerMessage    = "analyzer not configured"
	analyzerFailedLogMessage  = "Analyzer failed; substituting neutral default"
	prefetchFailedLogMessage  = "Landing page prefetch failed; analyzers will fetch individually"
	reviewFailedLogMessage    = "Qualitative review failed"
	auditStartedLogMessage    = "Starting audit"
	auditCompletedLogMessage  = "Audit completed"
	dimensionFieldConstant    = "dimension"
	leadIDFieldConstant       = "lead_id"
	websiteFieldConstant      = "website"
	runIDFieldConstant        = "run_id"
	overallScoreFieldConstant = "overall_score"
)

var errMissingAnalyzer = errors.New(missingAnalyzerMessage)

// Analyzers groups one analyzer per dimension.
type Analyzers struct {
	Performance analysis.Analyzer
	SEO         analysis.Analyzer
	UX          analysis.Analyzer
	Mobile      analysis.Analyzer
	Links       analysis.Analyzer
}

func (analyzers Analyzers) forDimension(dimension Dimension) analysis.Analyzer {
	switch dimension {
	case DimensionPerformance:
		return analyzers.Performance
	case DimensionSEO:
		return analyzers.SEO
	case DimensionUX:
		return analyzers.UX
	case DimensionMobile:
		return analyzers.Mobile
	default:
		return analyzers.Links
	}
}

// ExecutionSettings controls how the analyzers are scheduled.
type ExecutionSettings struct {
	Prefetch    bool
	Parallel    bool
	PageTimeout time.Duration
}

// Orchestrator runs every analyzer against a lead's website and aggregates the outcomes.
type Orchestrator struct {
	analyzers Analyzers
	fetcher   PageFetcher
	reviewer  Reviewer
	settings  ExecutionSettings
	clock     Clock
	logger    *zap.Logger
}

// NewOrchestrator constructs an Orchestrator. The fetcher is only used for the
// optional prefetch and the reviewer may be nil.
func NewOrchestrator(analyzers Analyzers, fetcher PageFetcher, reviewer Reviewer, settings ExecutionSettings, clock Clock, logger *zap.Logger) *Orchestrator {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		analyzers: analyzers,
		fetcher:   fetcher,
		reviewer:  reviewer,
		settings:  settings,
		clock:     clock,
		logger:    logger,
	}
}

// DefaultOutcome is the neutral outcome recorded when a dimension's analyzer fails.
func DefaultOutcome(dimension Dimension) analysis.Outcome {
	outcome := analysis.Outcome{
		Score:  NeutralScore,
		Issues: []string{fmt.Sprintf(failedAnalysisTemplate, dimension.Label())},
	}
	if dimension == DimensionLinks {
		outcome.LinkMetrics = &analysis.LinkMetrics{BrokenLinks: []string{}, Count: 0}
	}
	return outcome
}

// Audit always returns a complete Result for an auditable lead; analyzer
// failures surface only as neutral defaults.
func (orchestrator *Orchestrator) Audit(executionContext context.Context, lead leads.Lead) (Result, error) {
	if !lead.Auditable() {
		return Result{}, fmt.Errorf(missingWebsiteTemplate, lead.ID)
	}

	runID := uuid.NewString()
	websiteURL := webclient.NormalizeURL(lead.Website)
	logger := orchestrator.logger.With(zap.Int64(leadIDFieldConstant, lead.ID), zap.String(runIDFieldConstant, runID))
	logger.Info(auditStartedLogMessage, zap.String(websiteFieldConstant, websiteURL))

	target := analysis.Target{URL: websiteURL, Page: orchestrator.prefetch(executionContext, websiteURL, logger)}
	outcomes := orchestrator.runAnalyzers(executionContext, target, logger)
	overallScore, priorities := Aggregate(outcomes)

	result := Result{
		LeadID:           lead.ID,
		PerformanceScore: analysis.ClampScore(outcomes.Performance.Score),
		SEOScore:         analysis.ClampScore(outcomes.SEO.Score),
		UXScore:          analysis.ClampScore(outcomes.UX.Score),
		MobileScore:      analysis.ClampScore(outcomes.Mobile.Score),
		OverallScore:     overallScore,
		Details: Details{
			Performance: outcomes.Performance,
			SEO:         outcomes.SEO,
			UX:          outcomes.UX,
			Mobile:      outcomes.Mobile,
			Links:       outcomes.Links,
			Priorities:  priorities,
			Review:      orchestrator.review(executionContext, websiteURL, logger),
			RunID:       runID,
		},
		CreatedAt: orchestrator.clock.Now(),
	}

	logger.Info(auditCompletedLogMessage, zap.Int(overallScoreFieldConstant, result.OverallScore))
	return result, nil
}

func (orchestrator *Orchestrator) prefetch(executionContext context.Context, websiteURL string, logger *zap.Logger) *webclient.Page {
	if !orchestrator.settings.Prefetch || orchestrator.fetcher == nil {
		return nil
	}
	page, fetchError := orchestrator.fetcher.Fetch(executionContext, websiteURL, orchestrator.settings.PageTimeout)
	if fetchError != nil {
		logger.Warn(prefetchFailedLogMessage, zap.Error(fetchError))
		return nil
	}
	return &page
}

func (orchestrator *Orchestrator) runAnalyzers(executionContext context.Context, target analysis.Target, logger *zap.Logger) Outcomes {
	dimensions := Dimensions()
	resolved := make([]analysis.Outcome, len(dimensions))

	if orchestrator.settings.Parallel {
		var group errgroup.Group
		for index, dimension := range dimensions {
			index, dimension := index, dimension
			group.Go(func() error {
				resolved[index] = orchestrator.runAnalyzer(executionContext, dimension, target, logger)
				return nil
			})
		}
		_ = group.Wait()
	} else {
		for index, dimension := range dimensions {
			resolved[index] = orchestrator.runAnalyzer(executionContext, dimension, target, logger)
		}
	}

	var outcomes Outcomes
	for index, dimension := range dimensions {
		outcomes.set(dimension, resolved[index])
	}
	return outcomes
}

// runAnalyzer maps any error or panic from one analyzer to that dimension's default.
func (orchestrator *Orchestrator) runAnalyzer(executionContext context.Context, dimension Dimension, target analysis.Target, logger *zap.Logger) (outcome analysis.Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Warn(analyzerFailedLogMessage, zap.String(dimensionFieldConstant, string(dimension)), zap.Error(fmt.Errorf(panicTemplate, recovered)))
			outcome = DefaultOutcome(dimension)
		}
	}()

	analyzer := orchestrator.analyzers.forDimension(dimension)
	if analyzer == nil {
		logger.Warn(analyzerFailedLogMessage, zap.String(dimensionFieldConstant, string(dimension)), zap.Error(errMissingAnalyzer))
		return DefaultOutcome(dimension)
	}

	analyzed, analyzeError := analyzer.Analyze(executionContext, target)
	if analyzeError != nil {
		logger.Warn(analyzerFailedLogMessage, zap.String(dimensionFieldConstant, string(dimension)), zap.Error(analyzeError))
		return DefaultOutcome(dimension)
	}
	if analyzed.Issues == nil {
		analyzed.Issues = []string{}
	}
	analyzed.Score = analysis.ClampScore(analyzed.Score)
	return analyzed
}

func (orchestrator *Orchestrator) review(executionContext context.Context, websiteURL string, logger *zap.Logger) *textgen.Review {
	if orchestrator.reviewer == nil {
		return nil
	}
	review, reviewError := orchestrator.reviewer.Review(executionContext, websiteURL)
	if reviewError != nil {
		logger.Warn(reviewFailedLogMessage, zap.Error(reviewError))
		review = textgen.FailedReview(reviewError)
	}
	return &review
}
