package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"segmentation_groups/internal/config"
	"segmentation_groups/internal/logger"
	"segmentation_groups/internal/service"
)

func main() {
	userID := flag.Int64("user", 0, "user id to resolve groups for")
	csvFile := flag.String("csv", "", "default group template (overrides GROUPS_CSV_FILE)")
	outPath := flag.String("out", "", "write groups CSV to this file instead of stdout")
	importDefaults := flag.Bool("import", false, "persist the default template for the user before reading")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	onDone, err := logger.Setup(cfg.LogPath, cfg.LogCleanupMaxAge)
	if err != nil {
		panic(err)
	}
	defer onDone()

	store, err := service.NewGroupDataStore(cfg)
	if err != nil {
		panic(err)
	}

	if *importDefaults {
		n, err := store.ImportDefaults(ctx, *userID, *csvFile)
		if err != nil {
			slog.Error("failed to import default groups", "user_id", *userID, "err", err)
			return
		}
		slog.Info("imported default groups", "user_id", *userID, "rows", n)
	}

	groups, err := store.GetGroupData(ctx, *userID, *csvFile)
	if err != nil {
		slog.Error("failed to load groups", "user_id", *userID, "err", err)
		return
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			slog.Error("failed to create output file", "err", err)
			return
		}
		defer func(file *os.File) {
			if err := file.Close(); err != nil {
				slog.Error("failed to close output file", "err", err)
			}
		}(file)
		out = file
	}

	if err = service.WriteGroupsCSV(out, groups); err != nil {
		slog.Error("failed to write groups", "err", err)
	}
}
