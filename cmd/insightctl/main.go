// insightctl - оффлайн-доступ к оценке здоровья, прогнозу дефолта и аналитике
//
// Usage:
//
//	insightctl health --input profile.json
//	insightctl predict --input loan.json
//	insightctl analyze --input request.json --scenario loan_reduction_25
//	insightctl token --client scoring-gateway
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"health-finance-api/internal/model"
	"health-finance-api/internal/service"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "insightctl",
		Usage:   "Financial health, default prediction and loan insights from the command line",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Path to a PMML scorecard (defaults to the embedded model)",
				EnvVars: []string{"MODEL_PATH"},
			},
			&cli.DurationFlag{
				Name:    "scenario-timeout",
				Value:   5 * time.Second,
				Usage:   "Deadline for the scenario batch (0 disables it)",
				EnvVars: []string{"SCENARIO_TIMEOUT"},
			},
		},
		Commands: []*cli.Command{
			healthCommand(),
			predictCommand(),
			analyzeCommand(),
			quickCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var inputFlag = &cli.StringFlag{
	Name:     "input",
	Aliases:  []string{"i"},
	Usage:    "Path to the JSON request (\"-\" for stdin)",
	Required: true,
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Evaluate the financial health of a profile",
		Flags: []cli.Flag{inputFlag},
		Action: func(c *cli.Context) error {
			var req model.FinancialProfileRequest
			if err := readInput(c.String("input"), &req); err != nil {
				return err
			}
			svc, err := newAssessment(c)
			if err != nil {
				return err
			}
			result, err := svc.EvaluateHealth(c.Context, req)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Predict the default probability of a loan request",
		Flags: []cli.Flag{
			inputFlag,
			&cli.BoolFlag{
				Name:  "explain",
				Value: true,
				Usage: "Include the prediction explanation",
			},
		},
		Action: func(c *cli.Context) error {
			var req model.LoanRequestInput
			if err := readInput(c.String("input"), &req); err != nil {
				return err
			}
			svc, err := newAssessment(c)
			if err != nil {
				return err
			}
			result, err := svc.PredictLoan(c.Context, req, c.Bool("explain"))
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Build the full insight package for a profile and loan request",
		Flags: []cli.Flag{
			inputFlag,
			&cli.BoolFlag{
				Name:  "no-scenarios",
				Usage: "Skip what-if scenario analysis",
			},
			&cli.StringSliceFlag{
				Name:  "scenario",
				Usage: "Scenario to run (repeatable); overrides the request's list",
			},
		},
		Action: func(c *cli.Context) error {
			var req model.AnalyzeRequest
			if err := readInput(c.String("input"), &req); err != nil {
				return err
			}
			if c.Bool("no-scenarios") {
				off := false
				req.RunScenarios = &off
			}
			if c.IsSet("scenario") {
				req.Scenarios = nil
				for _, name := range c.StringSlice("scenario") {
					req.Scenarios = append(req.Scenarios, model.ScenarioName(name))
				}
			}
			svc, err := newAssessment(c)
			if err != nil {
				return err
			}
			pkg, err := svc.Analyze(c.Context, req)
			if err != nil {
				return err
			}
			return printJSON(pkg)
		},
	}
}

func quickCommand() *cli.Command {
	return &cli.Command{
		Name:  "quick",
		Usage: "Print a one-line insight for a profile and loan request",
		Flags: []cli.Flag{inputFlag},
		Action: func(c *cli.Context) error {
			var req model.AnalyzeRequest
			if err := readInput(c.String("input"), &req); err != nil {
				return err
			}
			svc, err := newAssessment(c)
			if err != nil {
				return err
			}
			resp, err := svc.Quick(c.Context, req)
			if err != nil {
				return err
			}
			fmt.Println(resp.Insight)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for a calling service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "client",
				Usage:    "Client identifier placed in the token subject",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "secret",
				Usage:    "HMAC secret shared with the server",
				EnvVars:  []string{"JWT_SECRET"},
				Required: true,
			},
			&cli.DurationFlag{
				Name:    "expiry",
				Value:   24 * time.Hour,
				Usage:   "Token lifetime",
				EnvVars: []string{"TOKEN_EXPIRY"},
			},
		},
		Action: func(c *cli.Context) error {
			tokens := service.NewTokenService(c.String("secret"), c.Duration("expiry"), newLogger(c))
			token, err := tokens.IssueToken(c.String("client"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// newAssessment собирает сервисы без БД: агрегаты берутся по умолчанию
func newAssessment(c *cli.Context) (*service.AssessmentService, error) {
	logger := newLogger(c)

	var scorecard *service.Scorecard
	var err error
	if path := c.String("model"); path != "" {
		scorecard, err = service.LoadScorecardFile(path)
	} else {
		scorecard, err = service.LoadDefaultScorecard()
	}
	if err != nil {
		return nil, err
	}

	aggregates := service.NewAggregationStore(nil, logger)
	return service.NewAssessmentService(
		service.NewHealthAnalyzer(logger),
		service.NewLoanPredictor(scorecard, aggregates, logger),
		service.NewInsightEngine(c.Duration("scenario-timeout"), logger),
		logger,
	), nil
}

func readInput(path string, dst interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
