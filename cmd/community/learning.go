package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studentvoice/internal/models"
	"studentvoice/internal/present"
)

func cmdSchedule(ctx context.Context, a *app, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return errUsage
	}
	schedule, err := a.client.CreateSchedule(ctx, topic)
	if err != nil {
		return err
	}
	printSchedule(a, schedule)
	return nil
}

func printSchedule(a *app, s *models.LearningSchedule) {
	header := fmt.Sprintf("#%d %s", s.ID, s.Topic)
	if s.TotalDays != nil {
		header += fmt.Sprintf(" (%d days)", *s.TotalDays)
	}
	_, _ = fmt.Fprintln(a.out, header)
	for _, d := range s.Days {
		_, _ = fmt.Fprintf(a.out, "  %s: %s\n", d.Day, d.LearningGoal)
		if d.Details != "" {
			_, _ = fmt.Fprintf(a.out, "    %s\n", d.Details)
		}
		for _, r := range d.Resources {
			_, _ = fmt.Fprintf(a.out, "    - %s\n", r)
		}
	}
	if s.Advice != "" {
		_, _ = fmt.Fprintf(a.out, "Advice: %s\n", s.Advice)
	}
}

func cmdSchedules(ctx context.Context, a *app, _ []string) error {
	schedules, err := a.client.Schedules(ctx)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		_, _ = fmt.Fprintln(a.out, "No learning schedules yet.")
		return nil
	}
	for _, s := range schedules {
		_, _ = fmt.Fprintf(a.out, "[%s] ", present.RelativeTime(s.CreatedAt, time.Now()))
		printSchedule(a, s)
		_, _ = fmt.Fprintln(a.out)
	}
	return nil
}

func cmdUnschedule(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.client.DeleteSchedule(ctx, args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Deleted schedule #%s.\n", args[0])
	return nil
}

func cmdSurveys(ctx context.Context, a *app, _ []string) error {
	surveys, err := a.client.Surveys(ctx)
	if err != nil {
		return err
	}
	if len(surveys) == 0 {
		_, _ = fmt.Fprintln(a.out, "No surveys yet.")
		return nil
	}
	for _, s := range surveys {
		_, _ = fmt.Fprintf(a.out, "%s (%d questions)\n  %s\n", s.Title, s.Questions, s.Description)
	}
	return nil
}

func cmdSurvey(ctx context.Context, a *app, args []string) error {
	college := strings.TrimSpace(strings.Join(args, " "))
	if college == "" {
		return errUsage
	}
	questions, err := a.client.SurveyQuestions(ctx, college)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("no survey for %q", college)
	}
	for _, q := range questions {
		_, _ = fmt.Fprintf(a.out, "#%d %s\n", q.ID, q.Text)
		for i, opt := range q.Options {
			marker := " "
			if q.MyChoice != nil && *q.MyChoice == i {
				marker = "*"
			}
			_, _ = fmt.Fprintf(a.out, "  %s %d. %s\n", marker, i+1, opt)
		}
	}
	return nil
}

func cmdAnswer(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	option, err := strconv.Atoi(args[1])
	if err != nil || option < 1 {
		return errUsage
	}
	result, err := a.client.AnswerQuestion(ctx, args[0], option-1)
	if err != nil {
		return err
	}
	if result.Awarded > 0 {
		_, _ = fmt.Fprintf(a.out, "Answer saved. +%d survey points.\n", result.Awarded)
		return nil
	}
	_, _ = fmt.Fprintln(a.out, "Answer updated.")
	return nil
}

func cmdResults(ctx context.Context, a *app, args []string) error {
	college := strings.TrimSpace(strings.Join(args, " "))
	if college == "" {
		return errUsage
	}
	results, err := a.client.SurveyResults(ctx, college)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "%s: %d respondents\n", results.College, results.Responses)
	for _, q := range results.Questions {
		_, _ = fmt.Fprintf(a.out, "%s\n", q.Text)
		for i, opt := range q.Options {
			count := 0
			if i < len(q.Counts) {
				count = q.Counts[i]
			}
			pct := 0
			if q.Total > 0 {
				pct = count * 100 / q.Total
			}
			_, _ = fmt.Fprintf(a.out, "  %-12s %3d (%d%%)\n", opt, count, pct)
		}
	}
	return nil
}
