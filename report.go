package glyphmatch

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const reportRule = "-------------------------------------------------------------"

// WriteReport prints the confusion matrix with one row per actual class and
// one column per predicted class, followed by the scaled score and the
// true recognition rate.
func WriteReport(w io.Writer, res *EvaluationResult) error {
	var sb strings.Builder

	for _, l := range Labels {
		fmt.Fprintf(&sb, "    %s", l)
	}
	sb.WriteString("\n")
	sb.WriteString(reportRule + "\n")

	for _, actual := range Labels {
		fmt.Fprintf(&sb, "%s | ", actual)
		for _, predicted := range Labels {
			n := res.Matrix[actual][predicted]
			pad := "    "
			if n > 9 {
				pad = "   "
			}
			fmt.Fprintf(&sb, "%d%s", n, pad)
		}
		sb.WriteString(" \n")
	}

	sb.WriteString(reportRule + "\n")
	fmt.Fprintf(&sb, "accuracy is %d %%\n", res.Score)
	fmt.Fprintf(&sb, "(scaled score: correct x %d / 100, not a normalized percentage)\n",
		res.ScoreScale)
	fmt.Fprintf(&sb, "recognition rate is %.2f %% (%d/%d correct, %d skipped)\n",
		res.Accuracy(), res.Correct(), res.Classified, res.Skipped)

	if miss := res.Misclassified(); len(miss) > 0 {
		sb.WriteString("misclassified:\n")
		for _, p := range miss {
			fmt.Fprintf(&sb, "  %s (%s) -> %s (%s) distance %.4f\n",
				p.Query.Name, p.Query.Label, p.Match.Name, p.Match.Label, p.Distance)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

type yamlPrediction struct {
	Query     string  `yaml:"query"`
	Actual    string  `yaml:"actual"`
	Match     string  `yaml:"match"`
	Predicted string  `yaml:"predicted"`
	Distance  float64 `yaml:"distance"`
}

type yamlReport struct {
	Labels        []string         `yaml:"labels"`
	Matrix        [][]int          `yaml:"matrix,flow"`
	Score         int              `yaml:"score"`
	ScoreScale    int              `yaml:"score_scale"`
	Accuracy      float64          `yaml:"accuracy_percent"`
	Classified    int              `yaml:"classified"`
	Correct       int              `yaml:"correct"`
	Skipped       int              `yaml:"skipped"`
	Misclassified []yamlPrediction `yaml:"misclassified,omitempty"`
}

// WriteYAML encodes the result as a YAML document.
func WriteYAML(w io.Writer, res *EvaluationResult) error {
	doc := yamlReport{
		Score:      res.Score,
		ScoreScale: res.ScoreScale,
		Accuracy:   res.Accuracy(),
		Classified: res.Classified,
		Correct:    res.Correct(),
		Skipped:    res.Skipped,
	}
	for _, l := range Labels {
		doc.Labels = append(doc.Labels, l.String())
		doc.Matrix = append(doc.Matrix, res.Matrix[l][:])
	}
	for _, p := range res.Misclassified() {
		doc.Misclassified = append(doc.Misclassified, yamlPrediction{
			Query:     p.Query.Name,
			Actual:    p.Query.Label.String(),
			Match:     p.Match.Name,
			Predicted: p.Match.Label.String(),
			Distance:  p.Distance,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
