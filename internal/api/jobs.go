// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ZSC714725/framegrab/internal/job"

	"github.com/gin-gonic/gin"
)

// AddJob POST /api/v1/jobs
func (h *Handler) AddJob(c *gin.Context) {
	var req JobConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	points := req.Points
	if req.Expression != "" {
		if len(points) > 0 {
			errResp(c, http.StatusBadRequest, "Invalid config", "give either points or expression")
			return
		}
		parsed, err := h.parseExpression(req.Expression, nil, req.MediaID)
		if err != nil {
			writeError(c, err)
			return
		}
		points = parsed
	}

	j, err := h.jobs.Add(&job.Config{
		ID:        req.ID,
		MediaID:   req.MediaID,
		Points:    points,
		Format:    req.Format,
		Width:     req.Width,
		Autostart: req.Autostart,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobToConfig(j))
}

// ListJobs GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	filter := c.DefaultQuery("filter", "")
	mediaID := c.DefaultQuery("media_id", "")
	idStr := c.DefaultQuery("id", "")

	var ids []string
	if idStr != "" {
		ids = strings.FieldsFunc(idStr, func(r rune) bool { return r == ',' })
		for i := range ids {
			ids[i] = strings.TrimSpace(ids[i])
		}
	}

	jobs := h.jobs.List(ids, mediaID)
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobToAPI(j, filter))
	}

	c.JSON(http.StatusOK, out)
}

// GetJob GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.jobs.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToAPI(j, c.DefaultQuery("filter", "")))
}

// DeleteJob DELETE /api/v1/jobs/:id
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.jobs.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// GetJobState GET /api/v1/jobs/:id/state
func (h *Handler) GetJobState(c *gin.Context) {
	j, err := h.jobs.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobState(j))
}

// GetJobReport GET /api/v1/jobs/:id/report
func (h *Handler) GetJobReport(c *gin.Context) {
	j, err := h.jobs.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobReport(j, "2006-01-02 15:04:05.000"))
}

// JobCommand PUT /api/v1/jobs/:id/command
func (h *Handler) JobCommand(c *gin.Context) {
	id := c.Param("id")

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	var err error
	switch req.Command {
	case "start":
		err = h.jobs.Start(id)
	case "stop":
		err = h.jobs.Stop(id)
	case "restart":
		err = h.jobs.Restart(id)
	default:
		errResp(c, http.StatusBadRequest, "Unknown command", "Known: start, stop, restart")
		return
	}

	if err != nil {
		if err == job.ErrNotFound {
			writeError(c, err)
			return
		}
		errResp(c, http.StatusBadRequest, "Command failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, "OK")
}

func jobToConfig(j *job.Job) *JobConfig {
	cfg := &JobConfig{
		ID:        j.ID,
		MediaID:   j.MediaID,
		Points:    j.Config.Points,
		Format:    j.Config.Format,
		Width:     j.Config.Width,
		Autostart: j.Config.Autostart,
		Dir:       j.Dir,
	}
	for _, o := range j.Outputs() {
		cfg.Outputs = append(cfg.Outputs, JobOutput{Time: o.Time, Path: o.Path})
	}
	return cfg
}

func jobState(j *job.Job) *JobState {
	status := j.Status()
	prog := j.Progress()
	return &JobState{
		Order:    status.Order,
		State:    status.State,
		Runtime:  int64(status.Duration.Seconds()),
		ExitCode: status.ExitCode,
		Memory:   status.Memory,
		CPU:      status.CPU,
		Command:  j.Config.CreateCommand(j.Address, j.Dir),
		Progress: &Progress{
			Frame:     prog.Frame,
			Total:     len(j.Config.Points),
			Size:      prog.Size,
			Time:      prog.Time,
			Speed:     prog.Speed,
			Drop:      prog.Drop,
			Dup:       prog.Dup,
			Quantizer: prog.Quantizer,
			LastError: prog.LastError,
		},
	}
}

// jobReport formats log timestamps with layout, or as unix seconds when
// layout is empty
func jobReport(j *job.Job, layout string) *JobReport {
	lines := j.Log()
	report := &JobReport{Log: make([][2]string, len(lines))}
	for i, line := range lines {
		ts := strconv.FormatInt(line.Timestamp.Unix(), 10)
		if layout != "" {
			ts = line.Timestamp.Format(layout)
		}
		report.Log[i] = [2]string{ts, line.Data}
	}
	return report
}

func jobToAPI(j *job.Job, filter string) Job {
	out := Job{
		ID:        j.ID,
		MediaID:   j.MediaID,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt(),
	}

	includeAll := filter == ""
	if includeAll || strings.Contains(filter, "config") {
		out.Config = jobToConfig(j)
	}
	if includeAll || strings.Contains(filter, "state") {
		out.State = jobState(j)
	}
	if includeAll || strings.Contains(filter, "report") {
		out.Report = jobReport(j, "")
	}
	return out
}
