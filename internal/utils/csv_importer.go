package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ArowuTest/draws-backend/internal/models"
)

// ParticipantImport is the outcome of reading a participants CSV
type ParticipantImport struct {
	TotalRows    int                  `json:"total_rows"`
	Participants []models.Participant `json:"participants"`
	Errors       []string             `json:"errors"`
}

var (
	nameColumns       = []string{"Name", "Participant", "Full Name"}
	facebookIDColumns = []string{"Facebook ID", "Facebook_ID", "FacebookID", "FBID"}
)

// ReadParticipantsCSVFile reads participants from the CSV file at path
func ReadParticipantsCSVFile(path string) (*ParticipantImport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadParticipantsCSV(file)
}

// ReadParticipantsCSV reads participants from r. The header must have a name
// column; a facebook id column is optional. Rows without a name are reported
// and skipped.
func ReadParticipantsCSV(r io.Reader) (*ParticipantImport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv file is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, nameColumns)
	facebookIdx := findColumnIndex(header, facebookIDColumns)
	if nameIdx == -1 {
		return nil, errors.New("name column not found in CSV")
	}

	result := &ParticipantImport{Participants: []models.Participant{}, Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error reading row: %v", err))
			continue
		}
		result.TotalRows++

		name := column(row, nameIdx)
		if name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: No name found", result.TotalRows))
			continue
		}
		result.Participants = append(result.Participants, models.Participant{
			Name:       name,
			FacebookID: column(row, facebookIdx),
		})
	}
	return result, nil
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// findColumnIndex finds the index of a column in the header
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
