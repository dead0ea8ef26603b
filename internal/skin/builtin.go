package skin

// Builtins returns the stock skin set shipped with the site. The stylesheet
// addresses are shared between variants of the same family.
func Builtins() []Skin {
	return []Skin{
		{
			Name:       "default",
			Tags:       nil,
			Stylesheet: "assets/skins/css/default.css",
			WidgetClasses: map[string]string{
				RoleTitle:    "default-title",
				RoleBody:     "default-body",
				RoleCitation: "default-citation",
				RoleStatus:   "default-status",
			},
		},
		{
			Name:       "sun_morning",
			Tags:       []string{"time_of_day:morning"},
			Stylesheet: "assets/skins/css/sun.css",
			WidgetClasses: map[string]string{
				RoleTitle:    "sun-title-morning",
				RoleBody:     "sun-body-morning",
				RoleCitation: "sun-citation-morning",
			},
		},
		{
			Name:       "sun_summer",
			Tags:       []string{"season:summer"},
			Stylesheet: "assets/skins/css/sun.css",
			WidgetClasses: map[string]string{
				RoleTitle: "sun-title-summer",
				RoleBody:  "sun-body-summer",
			},
		},
		{
			Name:       "shade_day",
			Tags:       []string{"day_period:day"},
			Stylesheet: "assets/skins/css/shade.css",
			WidgetClasses: map[string]string{
				RoleTitle:    "shade-title-day",
				RoleBody:     "shade-body-day",
				RoleCitation: "shade-citation-day",
			},
		},
		{
			Name:       "shade_night",
			Tags:       []string{"day_period:night"},
			Stylesheet: "assets/skins/css/shade.css",
			WidgetClasses: map[string]string{
				RoleTitle:    "shade-title-night",
				RoleBody:     "shade-body-night",
				RoleCitation: "shade-citation-night",
			},
		},
	}
}

// DefaultRegistry returns a registry pre-populated with the builtin skins.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, s := range Builtins() {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}
