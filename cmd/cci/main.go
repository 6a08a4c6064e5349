package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/cci/internal/cci"
	"github.com/tensorplex-labs/cci/internal/client"
	"github.com/tensorplex-labs/cci/internal/config"
	"github.com/tensorplex-labs/cci/internal/dataset"
	"github.com/tensorplex-labs/cci/internal/server"
	"github.com/tensorplex-labs/cci/internal/utils/logger"
)

var (
	subjectsFlag = flag.String("subjects", "1", "comma separated subject numbers")
	sessionsFlag = flag.String("sessions", "1", "comma separated session numbers")
	hemiFlag     = flag.String("hemi", "both", "hemisphere: lh, rh or both")
	labelsFlag   = flag.String("labels", "TE1p,TE2p,FFC,VVC,VMV2,VMV3,PHA1,PHA2,PHA3", "comma separated cortical label set")
	outFlag      = flag.String("out", "", "output file (.json, .json.zst or .parquet); defaults to the results path in CCI_OUTPUT_DIR")
	remoteFlag   = flag.Bool("remote", false, "compute on the server at CCI_SERVER_URL instead of locally")
)

func main() {
	logger.Init()
	log.Info().Msg("beginning...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	subjects, err := parseInts(*subjectsFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -subjects")
	}
	sessions, err := parseInts(*sessionsFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -sessions")
	}
	if len(subjects) == 0 || len(sessions) == 0 {
		log.Fatal().Msg("at least one subject and one session are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	compute, closeFn, err := newComputeFunc(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up computation")
	}
	defer closeFn()

	results := make(map[string]cci.Result)
	var key dataset.SessionKey
	for _, sub := range subjects {
		for _, sess := range sessions {
			key = dataset.SessionKey{Subject: sub, Session: sess, Hemi: *hemiFlag, LabelSet: *labelsFlag}

			session, err := dataset.LoadSession(cfg.DataDir, cfg.SubjectPrefix, key)
			if err != nil {
				log.Fatal().Err(err).Int("subject", sub).Int("session", sess).Msg("failed to load session")
			}

			result, err := compute(ctx, session)
			if err != nil {
				log.Fatal().Err(err).Int("subject", sub).Int("session", sess).Msg("failed to compute cci")
			}
			results[key.RunKey(cfg.SubjectPrefix)] = result
		}
	}

	// named after the last session processed
	out := *outFlag
	if out == "" {
		out = dataset.ResultPath(cfg.OutputDir, cfg.SubjectPrefix, key) + ".json"
	}
	if err := dataset.Write(out, results); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("failed to save results")
	}

	logger.Sugar().Infow("DONE", "runs", len(results), "output", out, "level", cfg.Level, "strategy", cfg.Strategy)
}

type computeFunc func(ctx context.Context, s *dataset.Session) (cci.Result, error)

func newComputeFunc(cfg *config.AppConfig) (computeFunc, func(), error) {
	if *remoteFlag {
		c, err := client.NewClient(&cfg.ClientEnvConfig)
		if err != nil {
			return nil, nil, err
		}
		return func(ctx context.Context, s *dataset.Session) (cci.Result, error) {
			return c.Compute(ctx, remoteRequest(&cfg.CCIEnvConfig, s))
		}, c.Close, nil
	}

	opts, err := cfg.CCIEnvConfig.Options()
	if err != nil {
		return nil, nil, err
	}
	orchestrator := cci.NewOrchestrator(opts...)
	return func(ctx context.Context, s *dataset.Session) (cci.Result, error) {
		return orchestrator.Run(ctx, s.Records, s.Trials)
	}, func() {}, nil
}

// remoteRequest carries every local computation setting to the server.
func remoteRequest(cfg *config.CCIEnvConfig, s *dataset.Session) server.ComputeRequest {
	strict := cfg.StrictBaseline
	return server.ComputeRequest{
		Sources:        dataset.FromRecords(s.Records),
		Trials:         s.Trials,
		Level:          cfg.Level,
		Strategy:       cfg.Strategy,
		Components:     cfg.Components,
		StrictBaseline: &strict,
	}
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
