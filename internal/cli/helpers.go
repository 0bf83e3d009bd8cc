package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/config"
	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/portfolio"
	"github.com/aristath/tnuos/internal/modules/rates"
	"github.com/aristath/tnuos/pkg/embedded"
	"github.com/aristath/tnuos/pkg/logger"
)

// env bundles what every command needs: configuration, logging and a
// calculator over the loaded tariff tables.
type env struct {
	cfg  *config.Config
	log  zerolog.Logger
	repo *rates.Repository
	calc *costing.Calculator
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	repo, err := loadRates(cfg, log)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:  cfg,
		log:  log,
		repo: repo,
		calc: costing.NewCalculator(repo, log),
	}, nil
}

// loadRates reads the tariff tables from the configured data directory,
// falling back to the embedded sample tables.
func loadRates(cfg *config.Config, log zerolog.Logger) (*rates.Repository, error) {
	if cfg.DataDir != "" {
		repo, err := rates.Load(os.DirFS(cfg.DataDir), log)
		if err != nil {
			return nil, fmt.Errorf("loading tariff tables from %s: %w", cfg.DataDir, err)
		}
		return repo, nil
	}

	log.Info().Msg("No data directory configured, using embedded sample tariffs")
	repo, err := rates.Load(embedded.Data(), log)
	if err != nil {
		return nil, fmt.Errorf("loading embedded tariff tables: %w", err)
	}
	return repo, nil
}

// loadPortfolio resolves the --portfolio and --sample flags.
func loadPortfolio(e *env) (domain.Portfolio, error) {
	if useSample {
		return portfolio.Sample(), nil
	}
	if portfolioPath == "" {
		return nil, errors.New("no portfolio given: pass --portfolio file.csv or --sample")
	}

	f, err := os.Open(portfolioPath)
	if err != nil {
		return nil, fmt.Errorf("opening portfolio: %w", err)
	}
	defer f.Close()

	return portfolio.NewLoader(e.log).FromCSV(f)
}

// year resolves the --year flag against the configured default.
func (e *env) year() int {
	if yearFlag == 0 {
		return e.cfg.DefaultYear
	}
	return yearFlag
}

// printJSON writes indented JSON to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// newTable returns a tab writer aimed at stdout. Callers flush it when
// done.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
