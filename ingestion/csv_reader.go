package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/cyclopcam/logs"
)

// Detector names accepted in the model column
const (
	ModelFire = "fire"
	ModelPPE  = "ppe"
)

// CSVReader streams detector output from a CSV file, one detection per row.
// Consecutive rows with the same source and frame_number form one frame. A row with an
// empty model or class_id marks a frame in which nothing was detected.
type CSVReader struct {
	log      logs.Log
	filePath string
	source   string
}

// NewCSVReader creates a new CSV reader. source names frames from files that have no
// source column; it defaults to the file name.
func NewCSVReader(log logs.Log, filePath, source string) *CSVReader {
	if source == "" {
		source = filepath.Base(filePath)
	}
	return &CSVReader{
		log:      log,
		filePath: filePath,
		source:   source,
	}
}

type csvRow struct {
	source    string
	frame     int
	model     string
	detection *models.Detection
}

// StreamToChannel reads the CSV and sends frames to a channel. It does not close the channel.
func (cr *CSVReader) StreamToChannel(frameChan chan<- models.Frame) error {
	frameCount := 0
	startTime := time.Now()

	err := cr.readFrames(func(f models.Frame) {
		frameChan <- f
		frameCount++
		if frameCount%10000 == 0 {
			elapsed := time.Since(startTime)
			rate := float64(frameCount) / elapsed.Seconds()
			cr.log.Infof("Streamed %d frames (%.2f frames/sec)", frameCount, rate)
		}
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	cr.log.Infof("CSV streaming complete - %d frames in %v", frameCount, elapsed)
	return nil
}

// ReadAll reads the entire CSV and returns all frames (use for smaller files)
func (cr *CSVReader) ReadAll() ([]models.Frame, error) {
	var frames []models.Frame
	err := cr.readFrames(func(f models.Frame) {
		frames = append(frames, f)
	})
	if err != nil {
		return nil, err
	}
	cr.log.Infof("Loaded %d frames from %v", len(frames), cr.filePath)
	return frames, nil
}

func (cr *CSVReader) readFrames(emit func(models.Frame)) error {
	file, err := os.Open(cr.filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	if _, ok := colMap["frame_number"]; !ok {
		return fmt.Errorf("CSV header has no frame_number column: %v", header)
	}

	var current *models.Frame
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			cr.log.Warnf("Error reading CSV row: %v", err)
			continue
		}

		parsed, err := cr.parseRow(row, colMap)
		if err != nil {
			cr.log.Warnf("Error parsing row: %v", err)
			continue
		}

		if current != nil && (current.Source != parsed.source || current.Number != parsed.frame) {
			emit(*current)
			current = nil
		}
		if current == nil {
			current = &models.Frame{Source: parsed.source, Number: parsed.frame}
		}
		if parsed.detection != nil {
			switch parsed.model {
			case ModelFire:
				current.Fire = append(current.Fire, *parsed.detection)
			case ModelPPE:
				current.PPE = append(current.PPE, *parsed.detection)
			}
		}
	}
	if current != nil {
		emit(*current)
	}
	return nil
}

func field(row []string, colMap map[string]int, name string) (string, bool) {
	idx, ok := colMap[name]
	if !ok || idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}

func floatField(row []string, colMap map[string]int, name string) (float64, error) {
	s, ok := field(row, colMap, name)
	if !ok {
		return 0, fmt.Errorf("missing %v", name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v: %w", name, err)
	}
	return v, nil
}

// parseRow converts a CSV row into a frame key and an optional detection
func (cr *CSVReader) parseRow(row []string, colMap map[string]int) (*csvRow, error) {
	frameStr, _ := field(row, colMap, "frame_number")
	frameNumber, err := strconv.Atoi(frameStr)
	if err != nil {
		return nil, fmt.Errorf("invalid frame_number: %w", err)
	}

	out := &csvRow{
		source: cr.source,
		frame:  frameNumber,
	}
	if s, ok := field(row, colMap, "source"); ok && s != "" {
		out.source = s
	} else if s, ok := field(row, colMap, "video_name"); ok && s != "" {
		out.source = s
	}

	model, _ := field(row, colMap, "model")
	classStr, _ := field(row, colMap, "class_id")
	if model == "" || classStr == "" {
		return out, nil
	}
	out.model = strings.ToLower(model)
	if out.model != ModelFire && out.model != ModelPPE {
		return nil, fmt.Errorf("unknown model %q (expected %v or %v)", model, ModelFire, ModelPPE)
	}

	classID, err := strconv.Atoi(classStr)
	if err != nil {
		return nil, fmt.Errorf("invalid class_id: %w", err)
	}

	confidence, err := floatField(row, colMap, "confidence")
	if err != nil {
		return nil, err
	}

	// Support both bbox_x1/y1/x2/y2 (bounding box) and u/v (centroid)
	var box models.Box
	if _, ok := colMap["bbox_x1"]; ok {
		if box.X1, err = floatField(row, colMap, "bbox_x1"); err != nil {
			return nil, err
		}
		if box.Y1, err = floatField(row, colMap, "bbox_y1"); err != nil {
			return nil, err
		}
		if box.X2, err = floatField(row, colMap, "bbox_x2"); err != nil {
			return nil, err
		}
		if box.Y2, err = floatField(row, colMap, "bbox_y2"); err != nil {
			return nil, err
		}
	} else if _, ok := colMap["u"]; ok {
		u, err := floatField(row, colMap, "u")
		if err != nil {
			return nil, err
		}
		v, err := floatField(row, colMap, "v")
		if err != nil {
			return nil, err
		}
		box = models.Box{X1: u, Y1: v, X2: u, Y2: v}
	} else {
		return nil, fmt.Errorf("missing pixel coordinates (expected u/v or bbox_x1/y1/x2/y2)")
	}

	out.detection = &models.Detection{
		ClassID:    classID,
		Confidence: confidence,
		Box:        box,
	}
	return out, nil
}
