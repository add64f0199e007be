// Command liminal-demo runs a configurable nurture scenario against the
// relationship service and writes the resulting JSON report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"liminalcore/internal/core"
	"liminalcore/internal/report"
	"liminalcore/internal/scenario"
	"liminalcore/internal/zaplog"
	"liminalcore/pkg/domain"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	scenarioPath string
	reportPath   string
	tracePath    string
	verbose      bool
	seed         int64
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "liminal-demo",
		Short: "Run a guardian/seedling/shelter nurture scenario and emit a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.scenarioPath, "scenario", "", "path to a YAML scenario file (built-in scenario when empty)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "path to write the JSON report (stdout when empty)")
	cmd.Flags().StringVar(&opts.tracePath, "trace", "", "path to write JSON-line trace spans")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "override the scenario's random seed")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg := scenario.Default()
	if opts.scenarioPath != "" {
		loaded, err := scenario.Load(opts.scenarioPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}

	logger, err := zaplog.NewDevelopment(opts.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svcOpts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithRand(rand.New(rand.NewSource(cfg.Seed)).Float64),
		core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("liminal_demo_metrics")),
	}
	if opts.tracePath != "" {
		traceFile, err := os.Create(opts.tracePath)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		defer traceFile.Close()
		svcOpts = append(svcOpts, core.WithTracer(core.NewJSONTracer(traceFile)))
	}
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine(), svcOpts...)

	demo, err := runScenario(ctx, svc, cfg, logger)
	if err != nil {
		return err
	}
	return writeReport(opts.reportPath, demo)
}

func runScenario(ctx context.Context, svc *core.Service, cfg scenario.Config, logger core.Logger) (report.DemoReport, error) {
	var rec report.Recorder
	none := report.DemoReport{}

	guardianSeed := domain.NewGuardian(cfg.Guardian.Name)
	if cfg.Guardian.Empathy > 0 {
		guardianSeed.EmpathyLevel = cfg.Guardian.Empathy
	}
	if cfg.Guardian.Patience > 0 {
		guardianSeed.PatienceLevel = cfg.Guardian.Patience
	}
	guardian, _, err := svc.CreateGuardian(ctx, guardianSeed)
	if err != nil {
		return none, fmt.Errorf("create guardian: %w", err)
	}
	seedling, _, err := svc.CreateSeedling(ctx, guardian.ID, cfg.Seedling.Name, cfg.Seedling.InitialTrust)
	if err != nil {
		return none, fmt.Errorf("create seedling: %w", err)
	}
	shelter, _, err := svc.CreateShelter(ctx, guardian.ID, seedling.ID, cfg.Shelter.Isolation)
	if err != nil {
		return none, fmt.Errorf("create shelter: %w", err)
	}
	logger.Info("scenario entities created",
		"guardian", guardian.ID, "seedling", seedling.ID, "shelter", shelter.ID)
	sampleSeedling(svc, seedling.ID, &rec)

	for _, task := range cfg.Curriculum {
		outcome, _, err := svc.AttemptLearning(ctx, seedling.ID, task.Task, task.Difficulty)
		if err != nil {
			return none, fmt.Errorf("learning attempt %q: %w", task.Task, err)
		}
		logger.Info("learning attempt",
			"task", task.Task, "success", outcome.Success, "growth", outcome.CurrentGrowth)
		sampleSeedling(svc, seedling.ID, &rec)
	}

	for _, step := range cfg.CarePlan {
		if _, _, err := svc.ReceiveCare(ctx, seedling.ID, guardian.ID, step.Type, step.Intensity); err != nil {
			return none, fmt.Errorf("care step %q: %w", step.Type, err)
		}
		sampleSeedling(svc, seedling.ID, &rec)
	}

	for _, event := range cfg.EmotionalEvents {
		if _, _, err := svc.ExperienceEmotionalEvent(ctx, seedling.ID, event.Type, event.Description, true); err != nil {
			return none, fmt.Errorf("emotional event %q: %w", event.Type, err)
		}
		sampleSeedling(svc, seedling.ID, &rec)
	}

	for _, probe := range cfg.AccessProbes {
		if probe.Trust {
			if _, _, err := svc.AddTrustedEntity(ctx, shelter.ID, probe.EntityID, probe.Reason); err != nil {
				return none, fmt.Errorf("trust %q: %w", probe.EntityID, err)
			}
		}
		if probe.Block {
			if _, _, err := svc.BlockEntity(ctx, shelter.ID, probe.EntityID, probe.Reason); err != nil {
				return none, fmt.Errorf("block %q: %w", probe.EntityID, err)
			}
		}
		decision, _, err := svc.RequestAccess(ctx, shelter.ID,
			probe.EntityID, probe.EntityType, probe.AccessType, probe.TrustLevel, probe.Reason)
		if err != nil {
			return none, fmt.Errorf("access probe %q: %w", probe.EntityID, err)
		}
		logger.Info("access probe",
			"entity", probe.EntityID, "granted", decision.AccessGranted, "permission", decision.PermissionLevel)
	}

	if cfg.Shelter.ActivateMode {
		status, _, err := svc.ActivateShelterMode(ctx, shelter.ID)
		if err != nil {
			return none, fmt.Errorf("activate shelter mode: %w", err)
		}
		logger.Info("shelter mode", "activated", status.ModeActivated, "threshold", status.NewThreshold)
	}

	for _, observation := range cfg.Reflections {
		reflection, _, err := svc.ReflectOnChild(ctx, guardian.ID, seedling.ID, observation)
		if err != nil {
			return none, fmt.Errorf("reflection: %w", err)
		}
		logger.Info("reflection", "emotion", reflection.GuardianEmotion,
			"recommendations", len(reflection.Recommendations))
	}

	for _, step := range cfg.GiveCareBack {
		offer, _, err := svc.GiveCare(ctx, seedling.ID, guardian.ID, step.Type, step.Intensity)
		if err != nil {
			return none, fmt.Errorf("give care: %w", err)
		}
		if offer.CareGiven {
			if _, _, err := svc.ReceiveChildCare(ctx, guardian.ID, seedling.ID, step.Type, offer.ActualIntensity); err != nil {
				return none, fmt.Errorf("receive child care: %w", err)
			}
		} else {
			logger.Info("care offer refused", "reason", offer.Reason)
		}
		sampleSeedling(svc, seedling.ID, &rec)
	}

	dev, err := svc.DevelopmentSummary(ctx, seedling.ID)
	if err != nil {
		return none, fmt.Errorf("development summary: %w", err)
	}
	emotional, err := svc.EmotionalSummary(ctx, shelter.ID, cfg.ReportHours)
	if err != nil {
		return none, fmt.Errorf("emotional summary: %w", err)
	}
	access, err := svc.AccessSummary(ctx, shelter.ID, cfg.ReportHours)
	if err != nil {
		return none, fmt.Errorf("access summary: %w", err)
	}

	finalGuardian, _ := svc.Store().GetGuardian(guardian.ID)
	finalSeedling, _ := svc.Store().GetSeedling(seedling.ID)
	finalShelter, _ := svc.Store().GetShelter(shelter.ID)
	return report.Build(time.Now().UTC(), finalGuardian, finalSeedling, finalShelter,
		dev, emotional, access, &rec), nil
}

func sampleSeedling(svc *core.Service, seedlingID string, rec *report.Recorder) {
	if sd, ok := svc.Store().GetSeedling(seedlingID); ok {
		rec.Sample(sd)
	}
}

func writeReport(path string, demo report.DemoReport) error {
	out := os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(demo); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
