package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"heartrisk/adapters/artifact"
	"heartrisk/adapters/excel"
	"heartrisk/adapters/remote"
	"heartrisk/domain/dataset"
	"heartrisk/domain/patient"
	"heartrisk/internal"
	"heartrisk/internal/eda"
	"heartrisk/internal/scoring"
	"heartrisk/ports"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heartrisk-cli",
		Short:        "Score patients, clean the heart dataset and render its charts",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newCleanCmd(),
		newChartCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

type modelFlags struct {
	path    string
	url     string
	token   string
	timeout time.Duration
}

func (m *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.path, "model", "random_forest_model.json", "Classifier artifact file")
	cmd.Flags().StringVar(&m.url, "model-url", "", "Model sidecar base URL (overrides --model)")
	cmd.Flags().StringVar(&m.token, "model-token", "", "Bearer token for the model sidecar")
	cmd.Flags().DurationVar(&m.timeout, "model-timeout", 10*time.Second, "Model sidecar request timeout")
}

func (m *modelFlags) loader() ports.ClassifierLoader {
	if m.url != "" {
		return remote.NewLoader(remote.Config{BaseURL: m.url, Token: m.token, Timeout: m.timeout})
	}
	return artifact.NewFileLoader(m.path)
}

func newScoreCmd() *cobra.Command {
	var model modelFlags
	in := patient.Inputs{
		Age:           50,
		Sex:           1,
		ChestPainType: 1,
		RestingBP:     130,
		Cholesterol:   237,
		MaxHeartRate:  150,
		Oldpeak:       0.6,
		STSlope:       1,
	}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one patient record",
		Long: `Score one patient record with the classifier artifact and print the
assessment as JSON. Categorical flags take the model's codes
(chest pain 1-4, ST slope 1-3).

Example: heartrisk-cli score --age 60 --chest-pain-type 4 --exercise-angina 1 --oldpeak 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), model.loader(), in)
		},
	}

	model.register(cmd)
	f := cmd.Flags()
	f.IntVar(&in.Age, "age", in.Age, "Age in years")
	f.IntVar(&in.Sex, "sex", in.Sex, "Sex (1 male, 0 female)")
	f.IntVar(&in.ChestPainType, "chest-pain-type", in.ChestPainType, "Chest pain type (1-4)")
	f.IntVar(&in.RestingBP, "resting-bp", in.RestingBP, "Resting blood pressure (mm Hg)")
	f.IntVar(&in.Cholesterol, "cholesterol", in.Cholesterol, "Serum cholesterol (mg/dl)")
	f.IntVar(&in.FastingBloodSugar, "fasting-blood-sugar", in.FastingBloodSugar, "Fasting blood sugar > 120 mg/dl (0/1)")
	f.IntVar(&in.RestingECG, "resting-ecg", in.RestingECG, "Resting ECG (0-2)")
	f.IntVar(&in.MaxHeartRate, "max-heart-rate", in.MaxHeartRate, "Maximum heart rate")
	f.IntVar(&in.ExerciseAngina, "exercise-angina", in.ExerciseAngina, "Exercise-induced angina (0/1)")
	f.Float64Var(&in.Oldpeak, "oldpeak", in.Oldpeak, "ST depression relative to rest")
	f.IntVar(&in.STSlope, "st-slope", in.STSlope, "ST slope (1-3)")
	return cmd
}

func runScore(ctx context.Context, out io.Writer, loader ports.ClassifierLoader, in patient.Inputs) error {
	svc := scoring.NewService(loader, internal.DefaultLogger.With("cli"))
	a, err := svc.Score(ctx, in)
	if err != nil {
		return err
	}
	return writeJSON(out, a)
}

func newCleanCmd() *cobra.Command {
	var input, output, sheet string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the heart dataset",
		Long: `Drop duplicate rows and rows with resting bp s = 0, impute cholesterol = 0
with the median of the non-zero values and write the result. The output format
follows the extension of --out (.csv or .xlsx).

Example: heartrisk-cli clean --in heart_statlog_cleveland_hungary_final.csv --out heart_clean.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), cmd.OutOrStdout(), input, sheet, output)
		},
	}

	cmd.Flags().StringVar(&input, "in", "heart_statlog_cleveland_hungary_final.csv", "Dataset file (.csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an .xlsx input (default: first)")
	cmd.Flags().StringVar(&output, "out", "", "Cleaned dataset file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runClean(ctx context.Context, out io.Writer, input, sheet, output string) error {
	raw, err := excel.NewDataReader(excel.ExcelConfig{FilePath: input, Sheet: sheet}).Read(ctx)
	if err != nil {
		return err
	}
	cleaned, report, err := dataset.Clean(raw)
	if err != nil {
		return err
	}
	if err := excel.WriteTable(output, cleaned); err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{
		"output": output,
		"hash":   cleaned.Hash(),
		"report": report,
	})
}

func newChartCmd() *cobra.Command {
	var input, sheet, kind, output string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render one dashboard chart as SVG",
		Long: `Clean the dataset and render one chart of the dashboard to an SVG file.

Kinds: target_count, age_distribution, sex_vs_target, feature_boxplots,
correlation_heatmap, outlier_boxplots, ratio_scatter.

Example: heartrisk-cli chart --kind correlation_heatmap --out heatmap.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd.Context(), input, sheet, kind, output)
		},
	}

	cmd.Flags().StringVar(&input, "in", "heart_statlog_cleveland_hungary_final.csv", "Dataset file (.csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an .xlsx input (default: first)")
	cmd.Flags().StringVar(&kind, "kind", "target_count", "Chart kind")
	cmd.Flags().StringVar(&output, "out", "", "SVG file to write")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runChart(ctx context.Context, input, sheet, kind, output string) error {
	k, err := eda.ParseKind(kind)
	if err != nil {
		return err
	}
	raw, err := excel.NewDataReader(excel.ExcelConfig{FilePath: input, Sheet: sheet}).Read(ctx)
	if err != nil {
		return err
	}
	cleaned, _, err := dataset.Clean(raw)
	if err != nil {
		return err
	}
	chart, err := eda.Build(k, cleaned)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := eda.RenderSVG(chart, &buf); err != nil {
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}

func newInspectCmd() *cobra.Command {
	var model modelFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the classifier and print its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clf, err := model.loader().Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), clf.Info())
		},
	}

	model.register(cmd)
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
