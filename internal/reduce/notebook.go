package reduce

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dataprompt/dataprompt/internal/config"
)

// notebookDocument models the parts of the .ipynb JSON format this reducer
// reads. Cell sources and output text may be either a single string or an
// array of line fragments; sourceText accepts both.
type notebookDocument struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string           `json:"cell_type"`
	Source   sourceText       `json:"source"`
	Outputs  []notebookOutput `json:"outputs"`
}

type notebookOutput struct {
	OutputType string                     `json:"output_type"`
	Text       sourceText                 `json:"text"`
	Data       map[string]json.RawMessage `json:"data"`
}

// sourceText joins the string-or-array representation used throughout the
// notebook format into a single string.
type sourceText string

func (s *sourceText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = sourceText(str)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*s = sourceText(strings.Join(parts, ""))
	return nil
}

// reduceNotebook renders notebook cells in order: markdown verbatim, code
// fenced, and recorded outputs filtered by a line budget. Oversized
// outputs and outputs carrying embedded base64 payloads are dropped
// silently; a marker per dropped output would itself be noise.
func (r *Reducer) reduceNotebook(target config.FileTarget) (Result, error) {
	raw, err := os.ReadFile(target.Path)
	if err != nil {
		return Result{}, err
	}
	var nb notebookDocument
	if err := json.Unmarshal(raw, &nb); err != nil {
		return Result{}, err
	}

	var sections []string
	for i, cell := range nb.Cells {
		num := i + 1
		sections = append(sections, fmt.Sprintf("### Cell %d [%s]", num, strings.ToUpper(cell.CellType)))

		switch cell.CellType {
		case "markdown":
			sections = append(sections, string(cell.Source))
		case "code":
			sections = append(sections, fencedBlock("python", string(cell.Source)))
			sections = append(sections, r.renderOutputs(num, cell.Outputs)...)
		}

		sections = append(sections, "\n---\n")
	}

	return Result{
		Content:     strings.Join(sections, "\n\n"),
		Status:      StatusCleaned,
		DisplayType: "Notebook",
	}, nil
}

// renderOutputs filters a code cell's recorded outputs. Stream output is
// kept when its line count is under the budget; result/display output
// additionally needs a text/plain representation free of base64 payloads.
func (r *Reducer) renderOutputs(cellNum int, outputs []notebookOutput) []string {
	var rendered []string
	for _, out := range outputs {
		switch out.OutputType {
		case "stream":
			text := string(out.Text)
			if strings.Count(text, "\n") < r.opts.MaxTextLines {
				rendered = append(rendered, fmt.Sprintf("> **Cell %d Output:**\n> %s", cellNum, strings.TrimSpace(text)))
			}
		case "execute_result", "display_data":
			plain, ok := out.Data["text/plain"]
			if !ok {
				continue
			}
			var text sourceText
			if err := json.Unmarshal(plain, &text); err != nil {
				continue
			}
			content := string(text)
			if !strings.Contains(content, "base64") && strings.Count(content, "\n") < r.opts.MaxTextLines {
				rendered = append(rendered, fmt.Sprintf("> **Cell %d Data Preview:**\n> %s", cellNum, strings.TrimSpace(content)))
			}
		}
	}
	return rendered
}
