package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	csvPath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0644))
	return csvPath
}

func TestCSVReaderParsing(t *testing.T) {
	csvPath := writeCSV(t, "site.csv", `frame_number,model,class_id,confidence,bbox_x1,bbox_y1,bbox_x2,bbox_y2
0,ppe,5,0.91,100,200,140,300
0,ppe,2,0.55,100,200,140,230
0,fire,1,0.40,10,10,50,50
1,,,,,,,
2,PPE,8,0.77,600,200,900,400`)

	reader := NewCSVReader(logs.NewTestingLog(t), csvPath, "")
	frames, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, "site.csv", frames[0].Source)
	assert.Equal(t, 0, frames[0].Number)
	require.Len(t, frames[0].PPE, 2)
	require.Len(t, frames[0].Fire, 1)
	assert.Equal(t, 5, frames[0].PPE[0].ClassID)
	assert.Equal(t, 0.91, frames[0].PPE[0].Confidence)
	assert.Equal(t, models.Point{X: 120, Y: 250}, frames[0].PPE[0].Center())

	// A frame with nothing detected still counts as a frame
	assert.Equal(t, 1, frames[1].Number)
	assert.Empty(t, frames[1].PPE)
	assert.Empty(t, frames[1].Fire)

	assert.Equal(t, 8, frames[2].PPE[0].ClassID)
}

func TestCSVReaderCentroidsAndSources(t *testing.T) {
	csvPath := writeCSV(t, "multi.csv", `video_name,frame_number,model,class_id,confidence,u,v
a.mp4,0,ppe,5,0.9,10,20
a.mp4,0,ppe,8,0.9,10,220
b.mp4,0,ppe,5,0.8,5,5
b.mp4,1,fire,0,0.7,1,1`)

	frames, err := NewCSVReader(logs.NewTestingLog(t), csvPath, "fallback").ReadAll()
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "a.mp4", frames[0].Source)
	assert.Len(t, frames[0].PPE, 2)
	assert.Equal(t, models.Point{X: 10, Y: 220}, frames[0].PPE[1].Center())
	assert.Equal(t, "b.mp4", frames[1].Source)
	assert.Equal(t, 0, frames[1].Number)
	assert.Equal(t, "b.mp4", frames[2].Source)
	assert.Len(t, frames[2].Fire, 1)
}

func TestCSVReaderInvalidData(t *testing.T) {
	csvPath := writeCSV(t, "invalid.csv", `frame_number,model,class_id,confidence,u,v
INVALID,ppe,5,0.9,1,1
0,drone,5,0.9,1,1
0,ppe,x,0.9,1,1
0,ppe,5,high,1,1
0,ppe,5,0.9,1
1,ppe,5,0.9,1,1`)

	frames, err := NewCSVReader(logs.NewTestingLog(t), csvPath, "cam").ReadAll()
	require.NoError(t, err, "invalid rows should be skipped, not fail the read")
	require.Len(t, frames, 1)
	assert.Equal(t, 1, frames[0].Number)
	assert.Len(t, frames[0].PPE, 1)
}

func TestCSVReaderMissingColumns(t *testing.T) {
	csvPath := writeCSV(t, "bad.csv", "model,class_id\nppe,5\n")
	_, err := NewCSVReader(logs.NewTestingLog(t), csvPath, "").ReadAll()
	require.Error(t, err)

	_, err = NewCSVReader(logs.NewTestingLog(t), filepath.Join(t.TempDir(), "nope.csv"), "").ReadAll()
	require.Error(t, err)
}

func TestCSVReaderStreamToChannel(t *testing.T) {
	csvPath := writeCSV(t, "stream.csv", `frame_number,model,class_id,confidence,u,v
0,ppe,5,0.9,1,1
1,ppe,5,0.9,1,1
1,ppe,5,0.9,2,2
2,,,,,`)

	frameChan := make(chan models.Frame, 10)
	reader := NewCSVReader(logs.NewTestingLog(t), csvPath, "cam")
	require.NoError(t, reader.StreamToChannel(frameChan))
	close(frameChan)

	var numbers []int
	for f := range frameChan {
		numbers = append(numbers, f.Number)
	}
	assert.Equal(t, []int{0, 1, 2}, numbers)
}
