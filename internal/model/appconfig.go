package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default placement settings applied to new layouts
	DefaultWallClearance             float64 `json:"default_wall_clearance" toml:"default_wall_clearance"`
	DefaultSprinklerSpacing          float64 `json:"default_sprinkler_spacing" toml:"default_sprinkler_spacing"`
	DefaultCeilingHeight             float64 `json:"default_ceiling_height" toml:"default_ceiling_height"`
	DefaultMinimumCoverageRadius     float64 `json:"default_minimum_coverage_radius" toml:"default_minimum_coverage_radius"`
	DefaultMaximumConnectionDistance float64 `json:"default_maximum_connection_distance" toml:"default_maximum_connection_distance"`
	DefaultStrategy                  string  `json:"default_strategy" toml:"default_strategy"`

	// Application preferences
	ShowASCII      bool     `json:"show_ascii" toml:"show_ascii"` // print the ASCII picture after the report
	ASCIIWidth     int      `json:"ascii_width" toml:"ascii_width"`
	ASCIIHeight    int      `json:"ascii_height" toml:"ascii_height"`
	RecentProjects []string `json:"recent_projects" toml:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultWallClearance:             defaults.WallClearance,
		DefaultSprinklerSpacing:          defaults.SprinklerSpacing,
		DefaultCeilingHeight:             defaults.CeilingHeight,
		DefaultMinimumCoverageRadius:     defaults.MinimumCoverageRadius,
		DefaultMaximumConnectionDistance: defaults.MaximumConnectionDistance,
		DefaultStrategy:                  string(StrategyGrid),
		ShowASCII:                        false,
		ASCIIWidth:                       80,
		ASCIIHeight:                      25,
		RecentProjects:                   []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// Zero values are skipped so a partial config file keeps the built-in defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultWallClearance != 0 {
		s.WallClearance = c.DefaultWallClearance
	}
	if c.DefaultSprinklerSpacing != 0 {
		s.SprinklerSpacing = c.DefaultSprinklerSpacing
	}
	if c.DefaultCeilingHeight != 0 {
		s.CeilingHeight = c.DefaultCeilingHeight
	}
	if c.DefaultMinimumCoverageRadius != 0 {
		s.MinimumCoverageRadius = c.DefaultMinimumCoverageRadius
	}
	if c.DefaultMaximumConnectionDistance != 0 {
		s.MaximumConnectionDistance = c.DefaultMaximumConnectionDistance
	}
}

// Strategy returns the configured default strategy, falling back to grid
// when the value is empty or unknown.
func (c AppConfig) Strategy() Strategy {
	s, err := ParseStrategy(c.DefaultStrategy)
	if err != nil {
		return StrategyGrid
	}
	return s
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	list := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			list = append(list, p)
		}
	}
	if max > 0 && len(list) > max {
		list = list[:max]
	}
	c.RecentProjects = list
}
