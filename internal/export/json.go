package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/momentum/internal/todo"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Open       int        `json:"open"`
	Done       int        `json:"done"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

func ToJSON(tasks []todo.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
		Tasks:      []jsonTask{},
	}

	for _, t := range tasks {
		if t.Completed {
			export.Done++
		} else {
			export.Open++
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:        t.ID,
			Text:      t.Text,
			Status:    status(t),
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
