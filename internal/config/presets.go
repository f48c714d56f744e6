package config

// PresetOption represents a predefined resize preset
type PresetOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	ScalePercent   float64 `json:"scale_percent,omitempty"`
	OutputFormat   string  `json:"output_format,omitempty"`
	MaintainAspect bool    `json:"maintain_aspect"`
}

// GetAvailablePresets returns all available resize presets
func GetAvailablePresets() []PresetOption {
	return []PresetOption{
		{
			ID:             "thumbnails",
			Name:           "Website Thumbnails",
			Description:    "300px wide thumbnails for web pages",
			Width:          300,
			MaintainAspect: true,
		},
		{
			ID:             "instagram",
			Name:           "Instagram Posts",
			Description:    "Fit within a 1080x1080 square",
			Width:          1080,
			Height:         1080,
			MaintainAspect: true,
		},
		{
			ID:             "email",
			Name:           "Email Attachments",
			Description:    "Half-size images for smaller attachments",
			ScalePercent:   50,
			MaintainAspect: true,
		},
		{
			ID:             "webp",
			Name:           "Web Optimization",
			Description:    "1920px wide WebP for faster page loads",
			Width:          1920,
			OutputFormat:   "WEBP",
			MaintainAspect: true,
		},
		{
			ID:             "products",
			Name:           "Product Photos",
			Description:    "Exact 800x800, may distort",
			Width:          800,
			Height:         800,
			MaintainAspect: false,
		},
		{
			ID:             "youtube",
			Name:           "YouTube Thumbnails",
			Description:    "1280x720 JPEG thumbnails",
			Width:          1280,
			Height:         720,
			OutputFormat:   "JPEG",
			MaintainAspect: true,
		},
		{
			ID:             "profile",
			Name:           "Profile Pictures",
			Description:    "Fit within 150x150",
			Width:          150,
			Height:         150,
			MaintainAspect: true,
		},
		{
			ID:             "jpeg",
			Name:           "JPEG Conversion",
			Description:    "Convert to JPEG without resizing",
			OutputFormat:   "JPEG",
			MaintainAspect: true,
		},
		{
			ID:             "wallpaper",
			Name:           "HD Wallpapers",
			Description:    "Fit within 1920x1080",
			Width:          1920,
			Height:         1080,
			MaintainAspect: true,
		},
		{
			ID:             "icons",
			Name:           "Tiny Icons",
			Description:    "Scale down to 10% of the original size",
			ScalePercent:   10,
			MaintainAspect: true,
		},
	}
}

// FindPreset returns the preset with the given ID, or nil if none matches.
func FindPreset(id string) *PresetOption {
	for _, p := range GetAvailablePresets() {
		if p.ID == id {
			preset := p
			return &preset
		}
	}
	return nil
}

// ApplyPreset overwrites the sizing and format settings of the config with
// the preset's values. Returns a ConfigurationError for unknown preset IDs.
func (c *Config) ApplyPreset(id string) error {
	preset := FindPreset(id)
	if preset == nil {
		return NewConfigurationError("preset", "unknown preset %q", id)
	}

	c.Resize.Width = preset.Width
	c.Resize.Height = preset.Height
	c.Resize.ScalePercent = preset.ScalePercent
	c.Resize.MaintainAspect = preset.MaintainAspect
	c.Output.Format = preset.OutputFormat
	return nil
}
