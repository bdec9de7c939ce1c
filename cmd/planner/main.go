// Command planner generates one itinerary from the command line and prints it.
//
// The catalog comes from a JSON seed file (-catalog). Passing -catalog= reads the
// postgres database configured through the environment instead.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/catalog"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/interests"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary/render"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/planner"
	"github.com/FACorreiaa/loci-trip-planner/internal/types"
	"github.com/FACorreiaa/loci-trip-planner/pkg/config"
	"github.com/FACorreiaa/loci-trip-planner/pkg/db"
)

type options struct {
	catalogFile string
	format      string
	out         string
	verbose     bool

	days, pax, maxTravel                  int
	budget, pace, origin, startDate       string
	interests, transport, accommodations  string
	mustVisit, exclude, excludeCategories string
	travelHours                           float64
	children, seniors, disabilities, pets bool
	noAccommodation, nextDayActivities    bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.StringVar(&o.catalogFile, "catalog", "data/sorsogon_catalog.json", "JSON catalog file; empty reads postgres")
	fs.StringVar(&o.format, "format", "text", "output format: text, json or pdf")
	fs.StringVar(&o.out, "out", "", "output file; stdout when empty")
	fs.BoolVar(&o.verbose, "v", false, "log planner decisions to stderr")

	fs.IntVar(&o.days, "days", 3, "trip length in days (1-14)")
	fs.IntVar(&o.pax, "pax", 2, "number of travelers")
	fs.StringVar(&o.budget, "budget", "medium", "budget category: low, medium or high")
	fs.StringVar(&o.pace, "pace", "moderate", "pace: relaxed, moderate or packed")
	fs.StringVar(&o.interests, "interests", "nature,beaches,wildlife,adventure", "comma separated interests, free text allowed")
	fs.StringVar(&o.transport, "transport", "rental_car", "comma separated transport modes")
	fs.StringVar(&o.accommodations, "accommodation-types", "hotel,resort", "comma separated accommodation types")
	fs.IntVar(&o.maxTravel, "max-travel", 120, "maximum minutes for one leg")
	fs.StringVar(&o.mustVisit, "must-visit", "Donsol Whale Shark Interaction,Bulusan Lake", "comma separated destination ids or names")
	fs.StringVar(&o.exclude, "exclude", "", "comma separated destination ids or names to skip")
	fs.StringVar(&o.excludeCategories, "exclude-categories", "shopping", "comma separated categories to skip")
	fs.StringVar(&o.origin, "origin", "Sorsogon City", "point of origin")
	fs.Float64Var(&o.travelHours, "travel-hours", 0, "hours of travel from the point of origin")
	fs.StringVar(&o.startDate, "start", "", "start date YYYY-MM-DD; today when empty")
	fs.BoolVar(&o.children, "children", false, "traveling with children")
	fs.BoolVar(&o.seniors, "seniors", false, "traveling with seniors")
	fs.BoolVar(&o.disabilities, "disabilities", false, "needs wheelchair access")
	fs.BoolVar(&o.pets, "pets", false, "traveling with pets")
	fs.BoolVar(&o.noAccommodation, "no-accommodation", false, "plan without an accommodation")
	fs.BoolVar(&o.nextDayActivities, "arrival-rest", false, "spend arrival and departure days traveling only")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch o.format {
	case "text", "json", "pdf":
	default:
		return options{}, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(context.Background(), o); err != nil {
		fmt.Fprintln(os.Stderr, "Error generating itinerary:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	repo, closeRepo, err := openCatalog(o.catalogFile, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	snapshot, err := catalog.NewService(repo, 0, logger).Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d destinations, %d accommodations, %d transport hubs\n",
		len(snapshot.Destinations), len(snapshot.Accommodations), len(snapshot.TransportHubs))

	req := buildRequest(o, snapshot.Destinations)
	prefs, err := req.Preferences(interests.NewMatcher())
	if err != nil {
		return err
	}

	it, err := planner.NewPlanner(logger).Plan(ctx, prefs, snapshot)
	if err != nil {
		return err
	}

	w := io.Writer(os.Stdout)
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return write(w, o.format, it)
}

func openCatalog(path string, logger *slog.Logger) (catalog.Repository, func(), error) {
	if path != "" {
		repo, err := catalog.LoadFileRepository(path)
		return repo, func() {}, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewPostgresRepository(database.Pool, logger), database.Close, nil
}

func write(w io.Writer, format string, it *types.Itinerary) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	case "pdf":
		return render.WritePDF(w, it)
	default:
		return render.WriteText(w, it)
	}
}

// buildRequest turns flags into the same request the HTTP API accepts. Destination
// names are resolved against the loaded catalog.
func buildRequest(o options, dests []types.Destination) itinerary.GenerateRequest {
	mustVisit := resolveDestinations(splitList(o.mustVisit), dests)
	exclude := resolveDestinations(splitList(o.exclude), dests)

	includeAccommodation := !o.noAccommodation
	sameDay := !o.nextDayActivities
	req := itinerary.GenerateRequest{
		Days:                  &o.days,
		Pax:                   &o.pax,
		BudgetCategory:        &o.budget,
		PacePreference:        &o.pace,
		TransportMode:         splitList(o.transport),
		Interests:             splitList(o.interests),
		HasChildren:           o.children,
		HasSeniors:            o.seniors,
		HasDisabilities:       o.disabilities,
		HasPets:               o.pets,
		IncludeAccommodation:  &includeAccommodation,
		AccommodationTypes:    splitList(o.accommodations),
		MaxTravelTime:         &o.maxTravel,
		MustVisitIDs:          mustVisit,
		ExcludeDestinationIDs: exclude,
		ExcludeCategories:     splitList(o.excludeCategories),
		PointOfOrigin:         o.origin,
		TravelTimeHours:       &o.travelHours,
		ActivityOnSameDay:     &sameDay,
	}
	if o.startDate != "" {
		req.StartDate = &o.startDate
	}
	return req
}

// resolveDestinations accepts numeric ids as-is and looks names up case-insensitively.
// Unknown names are reported as warnings and skipped.
func resolveDestinations(refs []string, dests []types.Destination) []int64 {
	byName := make(map[string]int64, len(dests))
	for _, d := range dests {
		byName[strings.ToLower(d.Name)] = d.ID
	}

	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			ids = append(ids, id)
			continue
		}
		id, ok := byName[strings.ToLower(ref)]
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: destination %q not found in catalog\n", ref)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
