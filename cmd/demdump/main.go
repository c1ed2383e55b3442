package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"github.com/aaronwong1989/godem"
	"github.com/aaronwong1989/godem/codec/dem"
	"github.com/aaronwong1989/godem/comm/logging"
	"github.com/aaronwong1989/godem/comm/yml_config"
)

var log = logging.GetDefaultLogger()

type options struct {
	json    bool
	frames  bool
	workers int
	config  string
}

type result struct {
	path    string
	summary godem.Summary
	err     error
}

func main() {
	defer logging.Cleanup()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "demdump [flags] FILE...",
		Short: "Print the header and frame layout of Source 2013 demo files",
		Long: "Decode HL2DEMO files and print a summary of each. " +
			"Use - to read a single demo from standard input.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" && !cmd.Flags().Changed("workers") {
				conf, err := yml_config.Load(opts.config)
				if err != nil {
					return err
				}
				if conf.IsSet("workers") {
					opts.workers = conf.GetInt("workers")
				}
			}
			results, err := dumpFiles(args, opts.workers, opts.frames, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, opts.json)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print one JSON object per file")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "list every frame")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "number of files decoded in parallel")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "yaml config file, key workers")
	return cmd
}

// dumpFiles 在 ants 工作池中并行解码, 结果顺序与 paths 一致
func dumpFiles(paths []string, workers int, withFrames bool, stdin io.Reader) ([]result, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(e interface{}) {
		log.Errorf("[%-9s] decode panic: %v", "Dump", e)
	}))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]result, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		results[i].path = path
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i].summary, results[i].err = dumpFile(path, withFrames, stdin)
		})
		if err != nil {
			wg.Done()
			results[i].err = err
		}
	}
	wg.Wait()
	return results, nil
}

func dumpFile(path string, withFrames bool, stdin io.Reader) (godem.Summary, error) {
	start := time.Now()
	if path == "-" {
		d, err := dem.ReadDemo(stdin)
		if err != nil {
			return godem.Summary{}, fmt.Errorf("stdin: %w", err)
		}
		s := godem.Summarize(d, withFrames)
		s.Source = "stdin"
		return s, nil
	}

	bts, err := os.ReadFile(path)
	if err != nil {
		return godem.Summary{}, err
	}
	d, rest, err := dem.Decode(bts)
	if err != nil {
		return godem.Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	s := godem.Summarize(d, withFrames)
	s.Source = path
	s.TrailingBytes = len(rest)
	log.Debugf("[%-9s] %s: %d bytes, %d frames in %s", "Dump", path, len(bts), len(d.Frames), time.Since(start))
	return s, nil
}

var errSomeFailed = errors.New("some demos failed to decode")

func printResults(out, errOut io.Writer, results []result, asJSON bool) error {
	failed := false
	enc := json.NewEncoder(out)
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(errOut, "%s: %v\n", r.path, r.err)
			continue
		}
		if asJSON {
			if err := enc.Encode(r.summary); err != nil {
				return err
			}
			continue
		}
		printText(out, r.summary)
	}
	if failed {
		return errSomeFailed
	}
	return nil
}

func printText(out io.Writer, s godem.Summary) {
	fmt.Fprintf(out, "%s\n", s.Source)
	fmt.Fprintf(out, "  protocol   demo=%d network=%d\n", s.DemoProtocol, s.NetworkProtocol)
	fmt.Fprintf(out, "  server     %s\n", s.ServerName)
	fmt.Fprintf(out, "  client     %s\n", s.ClientName)
	fmt.Fprintf(out, "  map        %s\n", s.MapName)
	fmt.Fprintf(out, "  game       %s\n", s.GameDirectory)
	fmt.Fprintf(out, "  playback   %s, %d ticks (%.2f/s), %d frames\n", s.Duration, s.PlaybackTicks, s.TickRate, s.PlaybackFrames)
	fmt.Fprintf(out, "  signon     %d bytes\n", s.SignonLength)
	fmt.Fprintf(out, "  payload    %d bytes\n", s.PayloadBytes)
	if s.TrailingBytes > 0 {
		fmt.Fprintf(out, "  trailing   %d bytes\n", s.TrailingBytes)
	}
	for _, f := range s.Frames {
		fmt.Fprintf(out, "  #%-6d server=%d client=%d size=%d\n", f.Index, f.ServerFrame, f.ClientFrame, f.SubPacketSize)
	}
}
