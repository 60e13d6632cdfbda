// Package hub locates model files for tokenizer resolution.
//
// A Client answers one question: given a model identifier and a file name,
// where is that file on local disk? The identifier may be:
//   - a local directory (optionally with a subfolder)
//   - a repository id such as "org/name", looked up in the on-disk cache
//     and downloaded from the configured endpoint on a cache miss
//
// Absent files are reported with ErrEntryNotFound rather than a transport
// error, so callers can treat "no such file" as an ordinary outcome.
//
// Example usage:
//
//	client, err := hub.NewClient(hub.WithCacheDir("/tmp/models"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := client.Resolve(ctx, "org/model", "tokenizer_config.json", hub.FetchOptions{})
//	if errors.Is(err, hub.ErrEntryNotFound) {
//	    // fall back to something else
//	}
package hub
