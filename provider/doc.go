// Package provider bootstraps the logging runtime.
//
// Settings are read with viper from defaults and NLOG_* environment
// variables. A Provider then loads the configuration document, either a
// file or an asset from an fs.FS, and prepares a logger.Registry from it.
// If the document is missing or broken the registry gets a fallback root
// logger writing to stdout, so callers always obtain a working logger.
//
//	s, err := provider.LoadSettings(nil)
//	if err != nil {
//		return err
//	}
//	p, err := provider.Open(s)
//	if err != nil {
//		log.Printf("logging: %v", err) // fallback is active
//	}
//	defer p.Close()
//	logger.Get("app").Info("started")
//
// With Settings.Watch the file is watched with fsnotify and reloaded after
// changes settle. A failed reload keeps the current configuration.
package provider
