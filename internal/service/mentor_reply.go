package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"studentvoice/internal/models"
	"studentvoice/internal/observability"
)

// stripCodeFence removes a surrounding ``` or ```json fence from model output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstField returns the first non-null value among keys.
func firstField(obj map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return v
		}
	}
	return nil
}

// parseMentorReply turns raw model text into a MentorAnswer. Text that is not a
// JSON object becomes the advice with every structured field empty.
func parseMentorReply(raw string) models.MentorAnswer {
	fallback := models.MentorAnswer{
		Answer:       raw,
		Advice:       raw,
		YoutubeLinks: []string{},
		Fallback:     true,
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &obj); err != nil || obj == nil {
		observability.MentorFallbacks.Inc()
		return fallback
	}

	out := models.MentorAnswer{YoutubeLinks: []string{}}

	if v := firstField(obj, "advice", "answer"); v != nil {
		var s string
		if json.Unmarshal(v, &s) == nil {
			out.Advice = s
		} else {
			out.Advice = string(v)
		}
	}
	out.Answer = out.Advice
	out.LearningPlan = firstField(obj, "learning_plan", "learningPlan")
	out.ChartData = firstField(obj, "chart_data", "chartData")

	if v := firstField(obj, "youtube_links", "youtubeLinks"); v != nil {
		var links []string
		if json.Unmarshal(v, &links) == nil {
			for _, l := range links {
				if l = strings.TrimSpace(l); l != "" {
					out.YoutubeLinks = append(out.YoutubeLinks, l)
				}
			}
		}
	}
	return out
}

type scheduleDayReply struct {
	Day               json.RawMessage `json:"day"`
	LearningGoal      string          `json:"learningGoal"`
	LearningGoalSnake string          `json:"learning_goal"`
	Details           string          `json:"details"`
	Resources         []string        `json:"resources"`
}

type scheduleReply struct {
	Topic          string             `json:"topic"`
	TotalDays      *int               `json:"totalDays"`
	TotalDaysSnake *int               `json:"total_days"`
	Schedule       []scheduleDayReply `json:"schedule"`
	Advice         string             `json:"advice"`
}

// parseScheduleReply turns raw model text into a schedule for topic. Text
// that does not decode as a schedule object is kept as advice with no days.
func parseScheduleReply(raw, topic string) models.LearningSchedule {
	var reply scheduleReply
	err := json.Unmarshal([]byte(stripCodeFence(raw)), &reply)
	if err != nil || (len(reply.Schedule) == 0 && reply.Advice == "") {
		observability.MentorFallbacks.Inc()
		return models.LearningSchedule{
			Topic:    topic,
			Days:     []models.ScheduleDay{},
			Advice:   raw,
			Response: raw,
			Fallback: true,
		}
	}

	out := models.LearningSchedule{
		Topic:    topic,
		Days:     make([]models.ScheduleDay, 0, len(reply.Schedule)),
		Advice:   reply.Advice,
		Response: raw,
	}
	if t := strings.TrimSpace(reply.Topic); t != "" {
		out.Topic = t
	}
	for i, d := range reply.Schedule {
		day := models.ScheduleDay{
			Day:          dayLabel(d.Day, i),
			LearningGoal: d.LearningGoal,
			Details:      d.Details,
			Resources:    []string{},
		}
		if day.LearningGoal == "" {
			day.LearningGoal = d.LearningGoalSnake
		}
		for _, r := range d.Resources {
			if r = strings.TrimSpace(r); r != "" {
				day.Resources = append(day.Resources, r)
			}
		}
		out.Days = append(out.Days, day)
	}

	switch {
	case reply.TotalDays != nil && *reply.TotalDays > 0:
		out.TotalDays = reply.TotalDays
	case reply.TotalDaysSnake != nil && *reply.TotalDaysSnake > 0:
		out.TotalDays = reply.TotalDaysSnake
	case len(out.Days) > 0:
		n := len(out.Days)
		out.TotalDays = &n
	}
	return out
}

// dayLabel accepts "Day 3" or a bare number and defaults to the position.
func dayLabel(raw json.RawMessage, i int) string {
	var s string
	if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	var n int
	if json.Unmarshal(raw, &n) == nil && n > 0 {
		return "Day " + strconv.Itoa(n)
	}
	return "Day " + strconv.Itoa(i+1)
}
