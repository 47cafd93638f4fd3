package tb

import (
	"encoding/json"
	"fmt"
)

// Environment is the response of /data/environment.
type Environment struct {
	DataLocation string `json:"data_location"`
	Version      string `json:"tensorboard_version"`
}

// ScalarTagInfo describes a single scalar tag within a run.
type ScalarTagInfo struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// ScalarPoint is one sample of a scalar time series. TensorBoard's JSON
// format encodes each point as a [wall_time, step, value] triple.
type ScalarPoint struct {
	WallTime float64
	Step     int64
	Value    float64
}

// UnmarshalJSON decodes the wire-format triple.
func (p *ScalarPoint) UnmarshalJSON(data []byte) error {
	var raw [3]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scalar point: %w", err)
	}
	p.WallTime = raw[0]
	p.Step = int64(raw[1])
	p.Value = raw[2]
	return nil
}

// SampledTagInfo describes an image or audio tag, which carries a sample
// count in addition to the display metadata.
type SampledTagInfo struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Samples     int    `json:"samples"`
}

// ImageMetadata is one entry of /data/plugin/images/images. The actual
// pixels are fetched separately via the Query string.
type ImageMetadata struct {
	WallTime float64 `json:"wall_time"`
	Step     int64   `json:"step"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Query    string  `json:"query"`
}

// AudioMetadata is one entry of /data/plugin/audio/audio.
type AudioMetadata struct {
	WallTime    float64 `json:"wall_time"`
	Step        int64   `json:"step"`
	ContentType string  `json:"content_type"`
	Query       string  `json:"query"`
}

// DistributionPoint is one entry of a histogram/distribution series.
type DistributionPoint struct {
	WallTime     float64   `json:"wall_time"`
	Step         int64     `json:"step"`
	Buckets      []float64 `json:"buckets"`
	BucketLimits []float64 `json:"bucket_limits"`
}

// TextPoint is one entry of /data/plugin/text/text.
type TextPoint struct {
	WallTime float64 `json:"wall_time"`
	Step     int64   `json:"step"`
	Text     string  `json:"text"`
}
