// Package config provides level catalog management for the grid puzzle.
//
// The config package handles:
//   - Loading level catalogs from JSON and TOML files
//   - Catalog validation before any level is played
//   - Default catalog management
//   - Catalog discovery, listing and hot reload
//
// Catalog Format:
//
// Catalogs are stored as <name>.json or <name>.toml in the catalog directory.
// Each catalog defines a name, a rotation policy ("selected" or "all") and an
// ordered list of levels, each with a board size, obstacle coordinates and
// the initial piece inventory:
//
//	name = "starter"
//	rotation_policy = "selected"
//
//	[[levels]]
//	number = 1
//	description = "Warm up"
//	obstacles = [[2, 2], [7, 7]]
//
//	  [[levels.pieces]]
//	  id = 1
//	  shape = [[1, 1], [0, 1]]
//
// The built-in "classic" catalog is always available, even without a catalog
// directory; a classic file in the directory overrides it.
//
// Usage:
//
//	manager, err := config.NewManager("catalogs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	catalog, err := manager.LoadCatalog("starter")
//	infos, err := manager.ListCatalogs()
//
//	watcher, err := config.NewWatcher(manager)
//	watcher.Start()
//	defer watcher.Stop()
package config
