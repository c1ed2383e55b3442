package main

// export GODEM_CONF_PATH="$HOME/.godem"
// export GODEM_LOGGING_LEVEL=-1
// export GODEM_LOGGING_FILE="$HOME/logs/demsrv.log"

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronwong1989/godem/codec/dem"
	"github.com/aaronwong1989/godem/comm"
	"github.com/aaronwong1989/godem/comm/logging"
	"github.com/aaronwong1989/godem/comm/metrics"
	"github.com/aaronwong1989/godem/comm/yml_config"
	"github.com/aaronwong1989/godem/ingest"
)

var log = logging.GetDefaultLogger()

func main() {
	defer logging.Cleanup()

	var port int
	var multicore bool
	flag.IntVar(&port, "port", 0, "--port 9270, overrides port in demsrv.yaml")
	flag.BoolVar(&multicore, "multicore", true, "--multicore=true")
	flag.Parse()

	conf := ingest.LoadConfig(yml_config.CreateYamlFactory("demsrv"))
	if port > 0 {
		conf.Port = port
	}
	conf.Multicore = conf.Multicore && multicore
	log.Infof("[Conf     ] %+v", conf)
	log.Infof("current pid is %s.", comm.SavePid("demsrv.pid"))

	comm.StartMonitor(conf.Port)

	s, err := ingest.NewServer(conf, metrics.NewMetrics(nil), func(id int32, d *dem.Demo) {
		log.Infof("[Handler  ] session=%d map=%s frames=%d payload=%d duration=%s",
			id, d.Header.MapName, len(d.Frames), d.PayloadBytes(), d.Duration())
	})
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		log.Warnf("received %v, stopping...", <-sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			log.Errorf("stop server: %v", err)
		}
	}()

	if err := s.Run(); err != nil {
		log.Errorf("server exits with error: %v", err)
	}
}
