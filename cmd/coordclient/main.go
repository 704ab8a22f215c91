package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	_ "modernc.org/sqlite"

	"github.com/dokim/coordclient/internal/api"
	"github.com/dokim/coordclient/internal/models"
	"github.com/dokim/coordclient/internal/session"
	"github.com/dokim/coordclient/internal/store"
	"github.com/dokim/coordclient/internal/theme"
	"github.com/dokim/coordclient/internal/weather"
)

type CLI struct {
	DB            string `help:"Path to the SQLite client-state database." default:"data/coordclient.db" env:"COORDCLIENT_DB"`
	BaseURL       string `help:"Coordinate-sharing server base URL." default:"http://localhost:8000" env:"COORDCLIENT_BASE_URL"`
	WeatherURL    string `help:"Weather provider base URL." default:"" env:"COORDCLIENT_WEATHER_URL"`
	CSRFToken     string `help:"CSRF token cookie value for mutating requests." env:"COORDCLIENT_CSRF_TOKEN"`
	SessionCookie string `help:"Server session cookie value." env:"COORDCLIENT_SESSION_COOKIE"`

	Run      RunCmd      `cmd:"" default:"withargs" help:"Run a page session: resolve the theme and poll notifications."`
	Theme    ThemeCmd    `cmd:"" help:"Inspect or override the visual theme."`
	Location LocationCmd `cmd:"" help:"Inspect or set the stored location decision."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("coordclient"),
		kong.Description("Companion client for the coordinate-sharing site: theme derivation and notification sync."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)
	if err := ctx.Run(&cli); err != nil {
		log.Fatal(err)
	}
}

func openStore(path string) (*store.Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return st, db, nil
}

type RunCmd struct {
	Landing bool   `help:"Bootstrap as the landing page (default reference location, no notification UI)."`
	Port    string `help:"Status server port." default:"8081"`
	NoPoll  bool   `help:"Disable unread-count polling (status server only)."`
}

func (r *RunCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	sess := session.New(session.Config{
		BaseURL:        cli.BaseURL,
		WeatherBaseURL: cli.WeatherURL,
		CSRFToken:      cli.CSRFToken,
		SessionCookie:  cli.SessionCookie,
		NotificationUI: !r.Landing && !r.NoPoll,
	}, st, nil, nil)
	defer sess.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if r.Landing {
		sess.StartLanding(ctx)
	} else {
		sess.StartMain(ctx)
	}

	server := api.NewServer(sess, r.Port)
	log.Printf("starting status server on :%s", r.Port)
	return server.Run(ctx)
}

type ThemeCmd struct {
	Set  ThemeSetCmd  `cmd:"" help:"Set a manual season/weather theme."`
	Auto ThemeAutoCmd `cmd:"" help:"Clear overrides and switch back to automatic derivation."`
	Time ThemeTimeCmd `cmd:"" help:"Set a manual day/night mode."`
	Show ThemeShowCmd `cmd:"" help:"Resolve and print the current theme."`
}

type ThemeSetCmd struct {
	Season  string `arg:"" enum:"spring,summer,fall,winter" help:"Season to apply."`
	Weather string `arg:"" enum:"clear,rain,snow,storm,cloudy,wind" help:"Weather effect to apply."`
}

func (c *ThemeSetCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver := theme.NewResolver(st, weather.NewClient(cli.WeatherURL), nil)
	state, err := resolver.ApplyManualTheme(models.Season(c.Season), models.Weather(c.Weather))
	if err != nil {
		return err
	}
	fmt.Printf("theme applied: season=%s weather=%s time=%s\n", state.Season, state.Weather, state.TimeOfDay)
	return nil
}

type ThemeAutoCmd struct{}

func (c *ThemeAutoCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver := theme.NewResolver(st, weather.NewClient(cli.WeatherURL), nil)
	if err := resolver.ApplyAutomaticMode(); err != nil {
		return err
	}
	fmt.Println("automatic theme enabled; next run derives from location and weather")
	return nil
}

type ThemeTimeCmd struct {
	Mode string `arg:"" enum:"day,night" help:"Day or night mode."`
}

func (c *ThemeTimeCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver := theme.NewResolver(st, weather.NewClient(cli.WeatherURL), nil)
	applied, err := resolver.ApplyManualTime(models.TimeOfDay(c.Mode))
	if err != nil {
		return err
	}
	fmt.Printf("time mode applied: %s\n", applied)
	return nil
}

type ThemeShowCmd struct {
	Landing bool `help:"Resolve as the landing page instead of a main page."`
}

func (c *ThemeShowCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver := theme.NewResolver(st, weather.NewClient(cli.WeatherURL), nil)

	var state models.ThemeState
	if c.Landing {
		state = resolver.ResolveForLanding(context.Background())
	} else {
		state = resolver.ResolveForMain(context.Background())
	}
	return json.NewEncoder(os.Stdout).Encode(state)
}

type LocationCmd struct {
	Set  LocationSetCmd  `cmd:"" help:"Record a location-permission decision."`
	Show LocationShowCmd `cmd:"" help:"Print the stored location decision."`
}

type LocationSetCmd struct {
	Lat    float64 `arg:"" help:"Latitude."`
	Lng    float64 `arg:"" help:"Longitude."`
	Denied bool    `help:"Record the decision as permission denied (stores the default reference location)."`
}

func (c *LocationSetCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	loc := models.GeoLocation{Lat: c.Lat, Lng: c.Lng, Granted: true}
	if c.Denied {
		loc = models.GeoLocation{Lat: theme.DefaultLocation.Lat, Lng: theme.DefaultLocation.Lng}
	}
	if err := st.SetUserLocation(loc); err != nil {
		return err
	}
	fmt.Printf("location stored: lat=%.4f lng=%.4f granted=%v\n", loc.Lat, loc.Lng, loc.Granted)
	return nil
}

type LocationShowCmd struct{}

func (c *LocationShowCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	loc, err := st.UserLocation()
	if err != nil {
		return err
	}
	if loc == nil {
		fmt.Println("no stored location")
		return nil
	}
	return json.NewEncoder(os.Stdout).Encode(loc)
}
