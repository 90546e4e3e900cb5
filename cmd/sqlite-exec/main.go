package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"

	sqlite "github.com/marcboeker/go-sqlite"
)

type options struct {
	PositionalArgs struct {
		Scripts []string `positional-arg-name:"script" description:"SQL script files, run in order"`
	} `positional-args:"yes" positional-optional:"yes"`

	DB          string        `short:"d" long:"db" env:"SQLITE_DB" description:"database path or file: URI" default:":memory:"`
	VFS         string        `long:"vfs" env:"SQLITE_VFS" description:"VFS name"`
	ReadOnly    bool          `long:"readonly" description:"open the database read-only"`
	BusyTimeout time.Duration `long:"busy-timeout" env:"SQLITE_BUSY_TIMEOUT" description:"time to wait for locks" default:"5s"`

	Exec      []string `short:"e" long:"exec" description:"SQL to run after the scripts"`
	Query     string   `short:"q" long:"query" description:"query to print as tab-separated rows"`
	KeepGoing bool     `short:"k" long:"keep-going" description:"continue after a failed script"`

	Trace   bool     `long:"trace" description:"log every statement"`
	Profile bool     `long:"profile" description:"log statement timings"`
	Deny    []string `long:"deny" description:"deny an authorizer action, e.g. DROP_TABLE"`

	Dbg bool `long:"dbg" description:"debug mode"`
}

func main() {
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		os.Exit(1)
	}
	setupLog(opts.Dbg)
	sqlite.SetLogger(lgr.Std)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed, %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	st := time.Now()

	openFlags := sqlite.OPEN_READWRITE | sqlite.OPEN_CREATE
	if opts.ReadOnly {
		openFlags = sqlite.OPEN_READONLY
	}
	conn, err := sqlite.Open(opts.DB, openFlags, opts.VFS)
	if err != nil {
		return fmt.Errorf("can't open %q: %w", opts.DB, err)
	}
	defer func() {
		if err := conn.CloseAndCheck(); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}()
	log.Printf("[DEBUG] sqlite %s, connection %s", sqlite.LibVersion(), conn.ID())

	if err = configure(conn, opts); err != nil {
		return err
	}

	// a signal aborts the running statement
	stop := context.AfterFunc(ctx, func() {
		log.Printf("[WARN] interrupted")
		_ = conn.Interrupt()
	})
	defer stop()

	type script struct{ name, sql string }
	scripts := make([]script, 0, len(opts.PositionalArgs.Scripts)+len(opts.Exec))
	for _, path := range opts.PositionalArgs.Scripts {
		data, err := os.ReadFile(path) // nolint
		if err != nil {
			return fmt.Errorf("can't read script: %w", err)
		}
		scripts = append(scripts, script{name: path, sql: string(data)})
	}
	for i, sql := range opts.Exec {
		scripts = append(scripts, script{name: fmt.Sprintf("exec #%d", i+1), sql: sql})
	}

	var errs *multierror.Error
	for _, s := range scripts {
		res, err := conn.Exec(s.sql)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", s.name, err))
			if !opts.KeepGoing {
				return errs.ErrorOrNil()
			}
			continue
		}
		log.Printf("[INFO] %s: %d rows affected, last insert id %d", s.name, res.RowsAffected, res.LastInsertID)
	}

	if opts.Query != "" {
		if err := printQuery(out, conn, opts.Query); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("query: %w", err))
		}
	}

	log.Printf("[DEBUG] completed in %v", time.Since(st).Truncate(time.Millisecond))
	return errs.ErrorOrNil()
}

// configure applies the connection level options.
func configure(conn *sqlite.Conn, opts options) error {
	if err := conn.BusyTimeout(opts.BusyTimeout); err != nil {
		return fmt.Errorf("can't set busy timeout: %w", err)
	}

	if opts.Trace {
		trace := sqlite.TraceFunc(func(sql string) {
			fmt.Fprintf(os.Stderr, "trace: %s\n", sql)
		})
		if err := conn.Trace(trace); err != nil {
			return fmt.Errorf("can't set trace: %w", err)
		}
	}

	if opts.Profile {
		profile := sqlite.ProfileFunc(func(sql string, elapsed time.Duration) {
			fmt.Fprintf(os.Stderr, "profile: %v %s\n", elapsed, strings.Join(strings.Fields(sql), " "))
		})
		if err := conn.Profile(profile); err != nil {
			return fmt.Errorf("can't set profile: %w", err)
		}
	}

	if len(opts.Deny) > 0 {
		denied, err := parseActions(opts.Deny)
		if err != nil {
			return err
		}
		auth := sqlite.AuthorizerFunc(func(action sqlite.AuthAction, arg1, arg2, _, _ string) sqlite.AuthResult {
			if _, ok := denied[action]; ok {
				log.Printf("[WARN] denied %s %s %s", action, arg1, arg2)
				return sqlite.AUTH_DENY
			}
			return sqlite.AUTH_OK
		})
		if err := conn.SetAuthorizer(auth); err != nil {
			return fmt.Errorf("can't set authorizer: %w", err)
		}
	}
	return nil
}

// parseActions maps action names like DROP_TABLE to authorizer actions.
func parseActions(names []string) (map[sqlite.AuthAction]struct{}, error) {
	known := make(map[string]sqlite.AuthAction)
	for a := sqlite.ACTION_CREATE_INDEX; a <= sqlite.ACTION_RECURSIVE; a++ {
		known[a.String()] = a
	}

	res := make(map[sqlite.AuthAction]struct{}, len(names))
	for _, name := range names {
		a, ok := known[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown authorizer action %q", name)
		}
		res[a] = struct{}{}
	}
	return res, nil
}

// printQuery writes the result of query as a header line followed by one
// tab-separated line per row.
func printQuery(out io.Writer, conn *sqlite.Conn, query string) error {
	stmt, err := conn.Prepare(query, true)
	if err != nil {
		return err
	}
	defer stmt.Close()

	names, err := stmt.ColumnNames()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, color.New(color.Bold).Sprint(strings.Join(names, "\t")))

	fields := make([]string, len(names))
	for {
		row, err := stmt.Step()
		if err != nil {
			return err
		}
		if !row {
			return nil
		}
		for i := range fields {
			v, err := stmt.ColumnValue(i)
			if err != nil {
				return err
			}
			fields[i] = formatValue(v)
		}
		fmt.Fprintln(out, strings.Join(fields, "\t"))
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "x'" + hex.EncodeToString(v) + "'"
	default:
		return fmt.Sprint(v)
	}
}

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)} // default to discard
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
