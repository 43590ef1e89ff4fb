package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Mindburn-Labs/helm-decide/pkg/config"
	"github.com/Mindburn-Labs/helm-decide/pkg/httpapi"
	"github.com/Mindburn-Labs/helm-decide/pkg/logging"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning/storage"
)

func runServeCmd(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	port := fs.String("port", cfg.Port, "HTTP port to listen on")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.New(cfg.LogLevel)
	adapter := storage.NewFile(cfg.StoragePath)
	mgr := versioning.NewManager(adapter, func() string { return uuid.NewString() }, time.Now)

	handler := httpapi.New(mgr, logger)
	addr := ":" + *port

	logger.Info("helm-decide serving", "addr", addr)
	fmt.Fprintf(stdout, "listening on %s\n", addr)

	if err := http.ListenAndServe(addr, handler); err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return 1
	}
	return 0
}
