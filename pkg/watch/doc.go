// Package watch runs a callback when watched expression files change.
//
// Files are watched through their parent directory so that editors that
// save by rename keep triggering events. Directories are watched
// recursively and filtered by extension. Bursts of events are coalesced
// by a Debouncer into one callback carrying every changed path.
//
//	w, err := watch.New(watch.ConfigFrom(&cfg.Watch, "exprs.yaml"), logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	return w.Run(ctx, func(ctx context.Context, changed []string) error {
//	    return regenerate(ctx)
//	})
package watch
