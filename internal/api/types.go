// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Values  []float64 `json:"values,omitempty"`
}

// ParseRequest for POST /timepoints/parse
type ParseRequest struct {
	Expression string   `json:"expression"`
	Max        *float64 `json:"max"`
	MediaID    string   `json:"media_id"`
}

// ParseResponse lists parsed time points
type ParseResponse struct {
	Points []float64 `json:"points"`
	Count  int       `json:"count"`
}

// SelectionRequest changes a caller held selection
type SelectionRequest struct {
	Selection  []float64 `json:"selection"`
	Op         string    `json:"op" binding:"required"`
	Expression string    `json:"expression"`
	Point      *float64  `json:"point"`
	Max        *float64  `json:"max"`
	MediaID    string    `json:"media_id"`
}

// SelectionResponse is the new selection
type SelectionResponse struct {
	Selection []float64 `json:"selection"`
}

// Media in API format
type Media struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Duration  float64 `json:"duration_seconds"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Codec     string  `json:"codec"`
	FrameRate float64 `json:"frame_rate"`
	Uploaded  bool    `json:"uploaded"`
	CreatedAt int64   `json:"created_at"`
}

// RegisterMediaRequest registers a file already reachable by ffmpeg
type RegisterMediaRequest struct {
	Name    string `json:"name"`
	Address string `json:"address" binding:"required"`
}

// PreviewRequest for POST /media/:id/preview
type PreviewRequest struct {
	Expression string `json:"expression"`
}

// PreviewEntry is one previewed time point
type PreviewEntry struct {
	Time  float64 `json:"time_seconds"`
	Found bool    `json:"found"`
	URL   string  `json:"url,omitempty"`
	Size  int     `json:"size_bytes,omitempty"`
	Error string  `json:"error,omitempty"`
}

// PreviewResponse lists at most Limit entries out of Requested points
type PreviewResponse struct {
	MediaID   string         `json:"media_id"`
	Requested int            `json:"requested"`
	Limit     int            `json:"limit"`
	Entries   []PreviewEntry `json:"entries"`
}

// JobConfigRequest creates a job from points or an expression
type JobConfigRequest struct {
	ID         string    `json:"id"`
	MediaID    string    `json:"media_id" binding:"required"`
	Points     []float64 `json:"points"`
	Expression string    `json:"expression"`
	Format     string    `json:"format"`
	Width      int       `json:"width"`
	Autostart  bool      `json:"autostart"`
}

// JobConfig in API format
type JobConfig struct {
	ID        string      `json:"id"`
	MediaID   string      `json:"media_id"`
	Points    []float64   `json:"points"`
	Format    string      `json:"format"`
	Width     int         `json:"width"`
	Autostart bool        `json:"autostart"`
	Dir       string      `json:"dir"`
	Outputs   []JobOutput `json:"outputs"`
}

// JobOutput is one image a job writes
type JobOutput struct {
	Time float64 `json:"time_seconds"`
	Path string  `json:"path"`
}

// Job represents a job in API responses
type Job struct {
	ID        string     `json:"id"`
	MediaID   string     `json:"media_id"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
	Config    *JobConfig `json:"config,omitempty"`
	State     *JobState  `json:"state,omitempty"`
	Report    *JobReport `json:"report,omitempty"`
}

// JobState for API
type JobState struct {
	Order    string    `json:"order"`
	State    string    `json:"exec"`
	Runtime  int64     `json:"runtime_seconds"`
	ExitCode int       `json:"exit_code"`
	Progress *Progress `json:"progress"`
	Memory   uint64    `json:"memory_bytes"`
	CPU      float64   `json:"cpu_usage"`
	Command  []string  `json:"command"`
}

// Progress from the ffmpeg parser
type Progress struct {
	Frame     uint64  `json:"frame"`
	Total     int     `json:"total"`
	Size      uint64  `json:"size_bytes"`
	Time      float64 `json:"time_seconds"`
	Speed     float64 `json:"speed"`
	Drop      uint64  `json:"drop"`
	Dup       uint64  `json:"dup"`
	Quantizer float64 `json:"q"`
	LastError string  `json:"last_error,omitempty"`
}

// JobReport for logs
type JobReport struct {
	Log [][2]string `json:"log"`
}

// CommandRequest for start/stop/restart
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// ReadyResponse for GET /ready
type ReadyResponse struct {
	Ready bool `json:"ready"`
}
