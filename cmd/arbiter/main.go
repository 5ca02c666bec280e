// Command arbiter inspects, samples and stores global pooling search spaces.
//
//	arbiter describe -space head.yaml [-dot]
//	arbiter sample -space head.yaml -n 10 -seed 7
//	arbiter save -space head.yaml -name head -store sqlite -db arbiter.db
//	arbiter load -name head -store sqlite -db arbiter.db
//	arbiter list -store redis -redis localhost:6379
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/gorgonia/arbiter"
	"github.com/gorgonia/arbiter/layer"
	"github.com/gorgonia/arbiter/param"
	"github.com/gorgonia/arbiter/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(logLevel(zerolog.InfoLevel))

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("arbiter failed")
		os.Exit(1)
	}
}

func logLevel(def zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		return def
	}
	return level
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: arbiter <describe|sample|save|load|list|delete> [flags]")
	}
	switch args[0] {
	case "describe":
		return runDescribe(args[1:], stdout)
	case "sample":
		return runSample(args[1:], stdout)
	case "save":
		return runSave(ctx, args[1:], stdout)
	case "load":
		return runLoad(ctx, args[1:], stdout)
	case "list":
		return runList(ctx, args[1:], stdout)
	case "delete":
		return runDelete(ctx, args[1:], stdout)
	}
	return errors.Errorf("unknown command %q", args[0])
}

func readSpace(path string) (*arbiter.GlobalPoolingSpace, error) {
	if path == "" {
		return nil, errors.New("-space is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	s, err := arbiter.Decode(data, arbiter.FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return s, nil
}

func runDescribe(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	path := fs.String("space", "", "space definition (.json, .yaml or .yml)")
	dot := fs.Bool("dot", false, "print the space as a Graphviz graph")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := readSpace(*path)
	if err != nil {
		return err
	}
	n, err := param.AssignIndices(s)
	if err != nil {
		return err
	}

	if *dot {
		g, err := param.ToDot(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, g)
		return err
	}

	fmt.Fprintf(stdout, "space:\t%v\n", s)
	fmt.Fprintf(stdout, "leaves:\t%d\n", s.NumParameters())
	fmt.Fprintf(stdout, "vector:\t%d\n", n)
	for i, l := range param.UniqueLeaves(s) {
		var indices []int
		if ix, ok := l.(param.Indexed); ok {
			indices = ix.Indices()
		}
		fmt.Fprintf(stdout, "%d\t%v\t%v\n", i, l, indices)
	}
	return nil
}

func runSample(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	path := fs.String("space", "", "space definition (.json, .yaml or .yml)")
	n := fs.Int("n", 1, "number of samples")
	seed := fs.Int64("seed", 1, "random seed")
	cache := fs.Int("cache", 128, "resolutions to memoize")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 0 {
		return errors.Errorf("-n must be non-negative, got %d", *n)
	}

	s, err := readSpace(*path)
	if err != nil {
		return err
	}
	width, err := param.AssignIndices(s)
	if err != nil {
		return err
	}
	memo, err := arbiter.NewMemo[layer.GlobalPooling](s, *cache)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	enc := json.NewEncoder(stdout)
	values := make([]float64, width)
	for i := 0; i < *n; i++ {
		for j := range values {
			values[j] = rng.Float64()
		}
		l, err := memo.Value(values)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		if err := enc.Encode(l); err != nil {
			return errors.WithStack(err)
		}
	}
	log.Debug().Int("samples", *n).Int("cached", memo.Len()).Msg("sampled")
	return nil
}

// storeFlags registers the backend flags on fs. Defaults come from the
// environment.
func storeFlags(fs *flag.FlagSet) (*store.Config, error) {
	c, err := store.ConfigFromEnv(store.DefaultConfig())
	if err != nil {
		return nil, err
	}
	fs.StringVar(&c.Kind, "store", c.Kind, "backend: memory, sqlite or redis")
	fs.StringVar(&c.SQLitePath, "db", c.SQLitePath, "sqlite database path")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "redis address")
	fs.StringVar(&c.KeyPrefix, "prefix", c.KeyPrefix, "redis key prefix")
	fs.DurationVar(&c.TTL, "ttl", c.TTL, "redis key expiry, 0 for none")
	return &c, nil
}

func openStore(ctx context.Context, c *store.Config) (store.Store, error) {
	s, err := store.NewStore(*c)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, errors.Wrapf(err, "init %s store", c.Kind)
	}
	return s, nil
}

func runSave(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	path := fs.String("space", "", "space definition (.json, .yaml or .yml)")
	name := fs.String("name", "", "name to save the definition under")
	c, err := storeFlags(fs)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	space, err := readSpace(*path)
	if err != nil {
		return err
	}
	s, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.CloseIfSupported(s); err == nil {
			err = cerr
		}
	}()

	if err := s.SaveSpace(ctx, *name, space); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "saved %s\n", *name)
	return err
}

func runLoad(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	name := fs.String("name", "", "name of the definition")
	format := fs.String("format", "yaml", "output format: json or yaml")
	c, err := storeFlags(fs)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var f arbiter.Format
	switch *format {
	case "json":
		f = arbiter.FormatJSON
	case "yaml":
		f = arbiter.FormatYAML
	default:
		return errors.Errorf("unknown format %q", *format)
	}

	s, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.CloseIfSupported(s); err == nil {
			err = cerr
		}
	}()

	space, ok, err := s.GetSpace(ctx, *name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("no space named %q", *name)
	}
	data, err := arbiter.Encode(space, f)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func runList(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	c, err := storeFlags(fs)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.CloseIfSupported(s); err == nil {
			err = cerr
		}
	}()

	names, err := s.ListSpaces(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(stdout, name); err != nil {
			return err
		}
	}
	return nil
}

func runDelete(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	name := fs.String("name", "", "name of the definition")
	c, err := storeFlags(fs)
	if err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.CloseIfSupported(s); err == nil {
			err = cerr
		}
	}()

	if err := s.DeleteSpace(ctx, *name); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "deleted %s\n", *name)
	return err
}
