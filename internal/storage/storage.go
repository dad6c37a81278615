package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/uww-referees/internal/referee"
)

const (
	// RegisterFile is the CSV file holding the scraped register
	RegisterFile = "uww_referees.csv"
	// LastDir holds the register from the previous run
	LastDir = "last"
	// SheetName is the worksheet name used for spreadsheet exports
	SheetName = "UWW referees"
)

// Storage handles persistence of register snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Join(dir, LastDir), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dir,
	}, nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// CurrentPath returns the path of the current register
func (s *Storage) CurrentPath() string {
	return filepath.Join(s.dataDir, RegisterFile)
}

// LastPath returns the path of the previous register
func (s *Storage) LastPath() string {
	return filepath.Join(s.dataDir, LastDir, RegisterFile)
}

// Load reads a register CSV. A missing file yields an empty register.
func Load(path string) ([]*referee.Referee, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*referee.Referee{}, nil
		}
		return nil, fmt.Errorf("opening register: %w", err)
	}
	defer f.Close()

	refs := []*referee.Referee{}
	if err := gocsv.UnmarshalFile(f, &refs); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []*referee.Referee{}, nil
		}
		return nil, fmt.Errorf("parsing register %s: %w", path, err)
	}
	return refs, nil
}

// LoadCurrent reads the current register
func (s *Storage) LoadCurrent() ([]*referee.Referee, error) {
	return Load(s.CurrentPath())
}

// LoadLast reads the previous register
func (s *Storage) LoadLast() ([]*referee.Referee, error) {
	return Load(s.LastPath())
}

// Save writes refs as the current register
func (s *Storage) Save(refs []*referee.Referee) error {
	return writeCSV(s.CurrentPath(), refs)
}

func writeCSV(path string, refs []*referee.Referee) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating register: %w", err)
	}

	if err := gocsv.MarshalFile(&refs, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding register: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing register: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing register: %w", err)
	}
	return nil
}

// Rotate moves the current register to last/. It is a no-op when there is
// no current register.
func (s *Storage) Rotate() error {
	if _, err := os.Stat(s.CurrentPath()); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(s.CurrentPath(), s.LastPath()); err != nil {
		return fmt.Errorf("rotating register: %w", err)
	}
	return nil
}

// ExportXLSX writes refs to a spreadsheet. Photo and profile links become
// HYPERLINK formulas and columns are sized to their widest value.
func ExportXLSX(path string, refs []*referee.Referee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	widths := make([]int, len(referee.Columns))
	for i, name := range referee.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		widths[i] = utf8.RuneCountInString(name)
	}

	for r, ref := range refs {
		row := r + 2
		for c, field := range ref.Fields() {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if n := utf8.RuneCountInString(field.Value); n > widths[c] {
				widths[c] = n
			}

			var err error
			switch {
			case field.Name == "id_number":
				err = f.SetCellValue(SheetName, cell, ref.IDNumber)
			case field.Name == "is_active":
				err = f.SetCellValue(SheetName, cell, ref.IsActive)
			case (field.Name == "photo" || field.Name == "athena") && field.Value != "":
				err = f.SetCellFormula(SheetName, cell, hyperlink(field.Value))
			default:
				err = f.SetCellValue(SheetName, cell, field.Value)
			}
			if err != nil {
				return fmt.Errorf("writing %s of %d: %w", field.Name, ref.IDNumber, err)
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, float64(w)+2); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving spreadsheet: %w", err)
	}
	return nil
}

func hyperlink(url string) string {
	return fmt.Sprintf(`HYPERLINK("%s")`, strings.ReplaceAll(url, `"`, `""`))
}
