// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package supervisor runs the feed server's long-lived components under a
suture v4 supervisor tree.

# Layers

	hablafeed (root)
	├── storage-layer
	│   └── maintenance-scheduler  (badger GC, DuckDB checkpoint)
	└── api-layer
	    └── http-server

Each layer is its own suture.Supervisor, so restart backoff is tracked per
layer. Supervisor events are written through sutureslog into the zerolog
stream via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStorageService(services.NewSchedulerService(sched))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Adapters for concrete components live in the services subpackage.
*/
package supervisor
