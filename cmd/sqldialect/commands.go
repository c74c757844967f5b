package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jinzhu/now"
	"github.com/urfave/cli/v2"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/errtranslator"
	"gorm.io/sqldialect/sqltypes"
)

var vendorsCommand = &cli.Command{
	Name:  "vendors",
	Usage: "list supported vendors with their default and minimum versions",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VENDOR\tPRODUCT\tDEFAULT\tMINIMUM")
		for _, v := range dialect.Vendors() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v, v.Product(), v.DefaultVersion(), v.MinimumVersion())
		}
		return w.Flush()
	},
}

var columnTypeCommand = &cli.Command{
	Name:  "column-type",
	Usage: "print the column type of a SQL type code",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "type code, e.g. varchar, decimal, timestamptz", Required: true},
		&cli.Int64Flag{Name: "length", Usage: "character or byte length"},
		&cli.IntFlag{Name: "precision", Usage: "numeric precision or fractional seconds"},
		&cli.IntFlag{Name: "scale", Usage: "numeric scale"},
	},
	Action: func(c *cli.Context) error {
		db, err := open(c)
		if err != nil {
			return err
		}
		code, err := sqltypes.ParseCode(c.String("type"))
		if err != nil {
			return err
		}

		size := dialect.Size{Length: c.Int64("length"), Precision: c.Int("precision"), Scale: c.Int("scale")}
		column, ok := db.Dialect().ColumnType(code, size)
		if !ok {
			return fmt.Errorf("%s has no column type for %s", db.Dialect(), code)
		}
		fmt.Fprintln(c.App.Writer, column)
		return nil
	},
}

var lockCommand = &cli.Command{
	Name:  "lock",
	Usage: "print the row lock clause, or the locking table reference for hint based vendors",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "write", Usage: "write or read"},
		&cli.BoolFlag{Name: "nowait", Usage: "fail instead of waiting for locked rows"},
		&cli.BoolFlag{Name: "skip-locked", Usage: "skip locked rows"},
		&cli.DurationFlag{Name: "timeout", Usage: "wait at most this long for locked rows"},
		&cli.StringSliceFlag{Name: "alias", Usage: "lock only these tables or columns"},
		&cli.StringFlag{Name: "table", Usage: "table name receiving the lock hint"},
	},
	Action: func(c *cli.Context) error {
		db, err := open(c)
		if err != nil {
			return err
		}

		opts := dialect.LockOptions{Timeout: c.Duration("timeout"), Aliases: c.StringSlice("alias")}
		switch strings.ToLower(c.String("mode")) {
		case "write", "update":
			opts.Mode = dialect.LockWrite
		case "read", "share":
			opts.Mode = dialect.LockRead
		default:
			return fmt.Errorf("unknown lock mode %q", c.String("mode"))
		}
		switch {
		case c.Bool("nowait") && c.Bool("skip-locked"):
			return errors.New("--nowait and --skip-locked are exclusive")
		case c.Bool("nowait"):
			opts.Timeout = dialect.NoWait
		case c.Bool("skip-locked"):
			opts.Timeout = dialect.SkipLocked
		}

		clause := strings.TrimSpace(db.Dialect().ForUpdateString(opts))
		if clause == "" && c.String("table") != "" {
			clause = db.Dialect().AppendLockHint(opts, c.String("table"))
		}
		fmt.Fprintln(c.App.Writer, clause)
		return nil
	},
}

var translateCommand = &cli.Command{
	Name:  "translate",
	Usage: "classify a vendor error code or SQLSTATE",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "code", Usage: "vendor error number"},
		&cli.StringFlag{Name: "sqlstate", Usage: "five character SQLSTATE"},
		&cli.StringFlag{Name: "message", Usage: "error message, used to extract constraint names"},
		&cli.StringFlag{Name: "constraint", Usage: "constraint name reported by the driver"},
	},
	Action: func(c *cli.Context) error {
		db, err := open(c)
		if err != nil {
			return err
		}
		if !c.IsSet("code") && !c.IsSet("sqlstate") {
			return errors.New("--code or --sqlstate required")
		}

		details := errtranslator.Details{
			Code:       c.Int("code"),
			SQLState:   c.String("sqlstate"),
			Message:    c.String("message"),
			Constraint: c.String("constraint"),
		}
		translated := errtranslator.For(string(db.Dialect().Vendor())).ClassifyDetails(details, "")
		if translated == nil {
			fmt.Fprintln(c.App.Writer, "unrecognized")
			return nil
		}

		w := tabwriter.NewWriter(c.App.Writer, 0, 4, 1, ' ', 0)
		fmt.Fprintf(w, "kind:\t%s\n", translated.Kind)
		if translated.Kind == errtranslator.ConstraintViolation {
			fmt.Fprintf(w, "constraint:\t%s\n", translated.Constraint)
			if translated.ConstraintName != "" {
				fmt.Fprintf(w, "name:\t%s\n", translated.ConstraintName)
			}
		}
		return w.Flush()
	},
}

var encodeLiteralCommand = &cli.Command{
	Name:      "encode-literal",
	Usage:     "render a value as a SQL literal",
	ArgsUsage: "<value>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "string", Usage: "string, binary (hex input), boolean, date, time, timestamp or timestamptz"},
	},
	Action: func(c *cli.Context) error {
		db, err := open(c)
		if err != nil {
			return err
		}
		if c.NArg() != 1 {
			return errors.New("exactly one value required")
		}

		var (
			d     = db.Dialect()
			value = c.Args().First()
			sb    strings.Builder
		)
		switch kind := strings.ToLower(c.String("kind")); kind {
		case "string":
			d.AppendStringLiteral(&sb, value)
		case "binary":
			b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(value), "0x"))
			if err != nil {
				return fmt.Errorf("invalid hex value: %w", err)
			}
			d.AppendBinaryLiteral(&sb, b)
		case "boolean":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			d.AppendBooleanLiteral(&sb, b)
		case "date", "time", "timestamp", "timestamptz":
			t, err := parseTime(value, db.CodecOptions().TimeZone, kind == "time")
			if err != nil {
				return err
			}
			precision := sqltypes.TimestampType
			switch kind {
			case "date":
				precision = sqltypes.DateType
			case "time":
				precision = sqltypes.TimeType
			}
			d.AppendDateTimeLiteral(&sb, t, precision, kind == "timestamptz")
		default:
			return fmt.Errorf("unknown literal kind %q", kind)
		}
		fmt.Fprintln(c.App.Writer, sb.String())
		return nil
	},
}

// parseTime accepts RFC 3339 and the loose layouts of jinzhu/now, read in loc
func parseTime(value string, loc *time.Location, clockOnly bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if clockOnly {
		return time.ParseInLocation("15:04:05.999999999", value, loc)
	}
	return now.ParseInLocation(loc, value)
}
