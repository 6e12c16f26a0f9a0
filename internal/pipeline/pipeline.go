// Package pipeline runs one secret scan inside a GitHub Actions job: route the
// trigger, obtain the engine, execute it and publish the outcome.
package pipeline

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/secretscout-io/secretscout/internal/engine"
	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/internal/findings"
	"github.com/secretscout-io/secretscout/internal/git"
	"github.com/secretscout-io/secretscout/internal/github"
	"github.com/secretscout-io/secretscout/internal/publisher"
	"github.com/secretscout-io/secretscout/internal/sarif"
	"github.com/secretscout-io/secretscout/pkg/shared/artifacts"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
)

// Exit codes returned by Run.
const (
	ExitClean    = 0
	ExitFindings = 1
)

// BinaryProvider yields the path of a runnable engine for a requested version.
type BinaryProvider interface {
	Obtain(ctx context.Context, requested string) (string, error)
}

// EngineRunner executes the engine.
type EngineRunner interface {
	Run(ctx context.Context, binaryPath string, args []string, workdir string) (engine.Result, error)
}

// API is the GitHub surface the pipeline needs.
type API interface {
	events.CommitLister
	publisher.CommentAPI
	GetAccount(ctx context.Context, login string) (github.Account, error)
}

// Pipeline is a single configured run. It is not reused across runs.
type Pipeline struct {
	logger   hclog.Logger
	settings *config.ActionSettings
	binaries BinaryProvider
	runner   EngineRunner
	api      API
	tracer   trace.Tracer
	now      func() time.Time
}

// New builds a pipeline. api may be nil when no token is configured; pull
// request triggers and review comments then fail or are skipped.
func New(logger hclog.Logger, settings *config.ActionSettings, binaries BinaryProvider, runner EngineRunner, api API) *Pipeline {
	return &Pipeline{
		logger:   logger.Named("pipeline"),
		settings: settings,
		binaries: binaries,
		runner:   runner,
		api:      api,
		tracer:   otel.Tracer("secretscout/pipeline"),
		now:      time.Now,
	}
}

// Run executes the pipeline and returns the process exit code: 0 when clean,
// 1 when secrets were found, the engine's own status for unexpected exits.
// A returned error carries its severity; the caller maps it to an exit code.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("event", p.settings.EventName),
		attribute.String("repository", p.settings.Repository),
	))
	defer span.End()

	code, err := p.run(ctx)
	span.SetAttributes(attribute.Int("exit_code", code))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
	}
	return code, err
}

func (p *Pipeline) run(ctx context.Context) (int, error) {
	ec, err := p.route(ctx)
	if err != nil {
		return ExitFindings, err
	}
	p.logger.Info("event context",
		"event", ec.EventType,
		"base_ref", ec.BaseRef,
		"head_ref", ec.HeadRef,
	)

	p.describeOwner(ctx, ec.Repository.Owner)
	p.checkBaseCommit(ec.BaseRef)

	if p.settings.RuleConfigPath != "" {
		if _, err := engine.ValidateRuleConfig(p.logger, p.settings.RuleConfigPath); err != nil {
			return ExitFindings, err
		}
	}

	binaryPath, err := p.obtain(ctx)
	if err != nil {
		return ExitFindings, err
	}

	scanRange := events.BuildScanRange(ec)
	args := engine.BuildArguments(p.settings, scanRange)
	p.logger.Debug("gitleaks arguments", "args", args)

	res, runErr := p.execute(ctx, binaryPath, args)
	if runErr != nil && res.ExitCode != 1 {
		return ExitFindings, runErr
	}

	switch res.ExitCode {
	case 0:
		p.logger.Info("no secrets detected")
		return ExitClean, p.summarize(publisher.SuccessSummary())

	case engine.FindingsExitCode:
		p.logger.Warn("secrets detected")
		if err := p.handleFindings(ctx, ec, scanRange, res.ExitCode); err != nil {
			return ExitFindings, err
		}
		return ExitFindings, nil

	default:
		p.logger.Error("unexpected gitleaks exit code", "exit_code", res.ExitCode, "stdout", res.Stdout, "stderr", res.Stderr)
		if err := p.summarize(publisher.ErrorSummary(res.ExitCode)); err != nil {
			p.logger.Warn("failed to write error summary", "error", err)
		}
		if runErr != nil {
			return res.ExitCode, runErr
		}
		return res.ExitCode, nil
	}
}

func (p *Pipeline) route(ctx context.Context) (*events.EventContext, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.route")
	defer span.End()

	var lister events.CommitLister
	if p.api != nil {
		lister = p.api
	}
	ec, err := events.NewRouter(p.logger, p.settings, lister).Route(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("event_type", string(ec.EventType)), attribute.Int("commits", len(ec.Commits)))
	return ec, nil
}

func (p *Pipeline) obtain(ctx context.Context) (string, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.obtain_binary", trace.WithAttributes(attribute.String("version", p.settings.Version)))
	defer span.End()

	path, err := p.binaries.Obtain(ctx, p.settings.Version)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	p.logger.Info("using gitleaks binary", "path", path)
	return path, nil
}

func (p *Pipeline) execute(ctx context.Context, binaryPath string, args []string) (engine.Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.execute")
	defer span.End()

	res, err := p.runner.Run(ctx, binaryPath, args, p.settings.Workspace)
	span.SetAttributes(attribute.Int("engine_exit_code", res.ExitCode))
	if err != nil {
		span.RecordError(err)
	}
	return res, err
}

func (p *Pipeline) handleFindings(ctx context.Context, ec *events.EventContext, scanRange string, exitCode int) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.publish")
	defer span.End()

	reportPath := p.settings.ReportPath()
	items, tool, err := sarif.ParseAndExtract(reportPath, p.logger)
	if err != nil {
		span.RecordError(err)
		return err
	}
	p.logger.Warn("found secrets", "count", len(items), "tool", tool.Name, "tool_version", toolVersion(tool))
	span.SetAttributes(attribute.Int("findings", len(items)))

	if p.settings.EnableComments && ec.EventType == events.PullRequest {
		if p.api == nil {
			p.logger.Warn("no GitHub client configured, skipping review comments")
		} else {
			posted := publisher.NewCommentPublisher(p.logger, p.api, p.settings.NotifyUserList).PostComments(ctx, ec, items)
			p.logger.Info("posted review comments", "count", posted)
		}
	}

	if p.settings.EnableSummary {
		summary, err := publisher.FindingsSummary(ec.Repository, items)
		if err != nil {
			return err
		}
		if err := p.summarize(summary); err != nil {
			return err
		}
	}

	if p.settings.EnableUploadArtifact {
		p.saveManifest(ec, scanRange, exitCode, tool, items)
		p.logger.Info("SARIF report ready for artifact upload", "path", reportPath)
	}
	return nil
}

func (p *Pipeline) summarize(content string) error {
	if !p.settings.EnableSummary {
		return nil
	}
	return publisher.WriteSummary(p.logger, p.settings.StepSummaryPath, content)
}

func (p *Pipeline) saveManifest(ec *events.EventContext, scanRange string, exitCode int, tool *sarif.ToolMetadata, items []findings.Finding) {
	manifest := artifacts.NewRunManifest(p.now())
	manifest.Event = string(ec.EventType)
	manifest.Repository = ec.Repository.FullName
	manifest.ScanRange = scanRange
	manifest.GitleaksVer = p.settings.Version
	manifest.EngineExitCode = exitCode
	manifest.ToolName = tool.Name
	manifest.ToolVersion = toolVersion(tool)
	manifest.ReportPath = p.settings.ReportPath()
	manifest.FindingsCount = len(items)
	manifest.Findings = items

	if _, err := artifacts.SaveManifest(p.logger, p.settings.Workspace, manifest); err != nil {
		p.logger.Warn("failed to write run manifest", "error", err)
	}
}

func toolVersion(tool *sarif.ToolMetadata) string {
	if tool.Version == nil {
		return ""
	}
	return *tool.Version
}

// describeOwner logs whether the repository owner is a user or an organization.
func (p *Pipeline) describeOwner(ctx context.Context, owner string) {
	if p.api == nil || owner == "" {
		return
	}
	account, err := p.api.GetAccount(ctx, owner)
	if err != nil {
		p.logger.Warn("failed to look up repository owner", "owner", owner, "error", err)
		return
	}
	p.logger.Info("repository owner", "login", account.Login, "type", account.Type)
}

// checkBaseCommit warns when a shallow checkout misses the start of the scan range.
func (p *Pipeline) checkBaseCommit(base string) {
	if base == "" {
		return
	}
	ok, err := git.HasCommit(p.settings.Workspace, base)
	if err != nil {
		p.logger.Debug("unable to inspect workspace repository", "error", err)
		return
	}
	if !ok {
		p.logger.Warn("base commit not present in checkout, fetch more history for a complete scan", "base_ref", base)
	}
}
