// mentorctl is a command line client for the mentorship API.
//
//	mentorctl [--url URL] [--token TOKEN] <command> [args]
//
// Commands:
//
//	health                  print the health report
//	diagnostics             print the schema diagnostics
//	mentors [--q TEXT]      list active mentors
//	requests --role ROLE    list requests received (mentor) or sent (seeker)
//	sessions                list sessions
//	accept ID --date DATE   accept a request and schedule its session
//	reject ID               reject a request
//
// The token defaults to $MENTORSHIP_TOKEN.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/vnkhanh/mentorship-backend/client"
	"github.com/vnkhanh/mentorship-backend/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		baseURL string
		token   string
		query   string
		role    string
		date    string
		timeout time.Duration
	)
	flagSet := pflag.NewFlagSet("mentorctl", pflag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprintln(flagSet.Output(), "usage: mentorctl [flags] health|diagnostics|mentors|requests|sessions|accept ID|reject ID")
		flagSet.PrintDefaults()
	}
	flagSet.StringVar(&baseURL, "url", "http://localhost:8080", "API base URL")
	flagSet.StringVar(&token, "token", os.Getenv("MENTORSHIP_TOKEN"), "session token")
	flagSet.StringVar(&query, "q", "", "filter mentors by name or area")
	flagSet.StringVar(&role, "role", "", "mentor or seeker")
	flagSet.StringVar(&date, "date", "", "session date, 2006-01-02T15:04 or RFC 3339")
	flagSet.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	api := client.New(baseURL, token, nil)

	switch rest[0] {
	case "health":
		report, ok, err := api.Health(ctx)
		return printReport(report, ok, err)
	case "diagnostics":
		report, ok, err := api.Diagnostics(ctx)
		return printReport(report, ok, err)
	case "mentors":
		mentors, err := api.Mentors(ctx, query)
		if err != nil {
			return err
		}
		return printJSON(mentors)
	case "requests":
		r, err := models.ParseRole(role)
		if err != nil {
			return fmt.Errorf("--role: %w", err)
		}
		var requests []models.RequestView
		if r == models.RoleMentor {
			requests, err = api.MentorRequests(ctx)
		} else {
			requests, err = api.SeekerRequests(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(requests)
	case "sessions":
		sessions, err := api.Sessions(ctx)
		if err != nil {
			return err
		}
		return printJSON(sessions)
	case "accept":
		id, err := requestArg(rest)
		if err != nil {
			return err
		}
		request, session, err := api.AcceptRequest(ctx, id, date)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"request": request, "session": session})
	case "reject":
		id, err := requestArg(rest)
		if err != nil {
			return err
		}
		request, err := api.RejectRequest(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(request)
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func requestArg(args []string) (uuid.UUID, error) {
	if len(args) < 2 {
		return uuid.Nil, errors.New("missing request id")
	}
	return uuid.Parse(args[1])
}

func printReport(report map[string]any, ok bool, err error) error {
	if err != nil {
		return err
	}
	if err := printJSON(report); err != nil {
		return err
	}
	if !ok {
		return errors.New("service is not healthy")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
