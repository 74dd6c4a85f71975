package slides

// Built-in content. The copy is placeholder marketing material; the numbers on the
// region and infrastructure decks follow the default deck's citations, so they do
// not match positions there.

var defaultSlides = []Slide{
	{
		Descriptor: Descriptor{ID: "cover", Number: 1, Headline: "Power that follows the sun"},
		Content: Content{
			Kind:     KindTitle,
			Kicker:   "Meridian Grid",
			Subtitle: "Distributed storage for renewable-heavy networks",
		},
	},
	{
		Descriptor: Descriptor{ID: "problem", Number: 2, Headline: "Curtailment is the silent tax"},
		Content: Content{
			Kind: KindStatement,
			Body: "Every sunny afternoon, gigawatt-hours of clean generation are switched off because the grid cannot absorb them. Operators pay twice: once for the panels, again for the fossil peakers that run after dark.",
		},
	},
	{
		Descriptor: Descriptor{ID: "market", Number: 3, Headline: "A market that doubled in three years"},
		Content: Content{
			Kind: KindStats,
			Body: "Installed behind-the-meter capacity across our launch regions.",
			Stats: []Stat{
				{Value: "41 GWh", Label: "curtailed in 2024"},
				{Value: "2.1x", Label: "storage growth since 2021"},
				{Value: "$9.8B", Label: "addressable spend"},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "solution", Number: 4, Headline: "Store it where it is made"},
		Content: Content{
			Kind: KindBullets,
			Points: []string{
				"Containerised batteries sited at substations",
				"Dispatch scheduled against day-ahead prices",
				"Operator dashboards with per-site health",
				"Revenue share instead of capital outlay",
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "product", Number: 5, Headline: "One platform, three layers"},
		Content: Content{
			Kind: KindCards,
			Cards: []Card{
				{Title: "Hardware", Body: "Modular 2 MWh units that ship on a standard flatbed."},
				{Title: "Control", Body: "Forecast-driven charge and discharge, tuned per site."},
				{Title: "Market", Body: "Automatic bidding into capacity and balancing markets."},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "traction", Number: 6, Headline: "Traction in the first year"},
		Content: Content{
			Kind: KindStats,
			Stats: []Stat{
				{Value: "14", Label: "sites energised"},
				{Value: "96.4%", Label: "fleet availability"},
				{Value: "3", Label: "utility partners"},
				{Value: "18 MWh", Label: "average daily shift"},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "model", Number: 7, Headline: "How we make money"},
		Content: Content{
			Kind: KindStatement,
			Body: "We own the assets and share arbitrage revenue with the host utility. Contracts run ten years with a floor price, so each site pays back inside four.",
		},
	},
	{
		Descriptor: Descriptor{ID: "roadmap", Number: 8, Headline: "Where we go next"},
		Content: Content{
			Kind: KindBullets,
			Points: []string{
				"Q1: second-life cells qualified for light-duty sites",
				"Q2: grid-forming inverters on all new units",
				"Q3: first cross-border balancing contract",
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "team", Number: 9, Headline: "Built by grid people"},
		Content: Content{
			Kind: KindCards,
			Cards: []Card{
				{Title: "Operations", Body: "Twenty years of substation commissioning."},
				{Title: "Software", Body: "Forecasting and trading systems at scale."},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "ask", Number: 10, Headline: "Join the next hundred sites"},
		Content: Content{
			Kind:         KindClosing,
			Body:         "We are raising to deploy one hundred sites by the end of next year.",
			CallToAction: "Book a site assessment",
			Contact:      "partners@meridiangrid.example",
		},
	},
}

var regionSlides = []Slide{
	{
		Descriptor: Descriptor{ID: "cover", Number: 1, Headline: "Meridian in the Nordics"},
		Content: Content{
			Kind:     KindTitle,
			Kicker:   "Regional briefing",
			Subtitle: "Hydro-balanced storage for a wind-heavy grid",
		},
	},
	{
		Descriptor: Descriptor{ID: "region-market", Number: 3, Headline: "The regional picture"},
		Content: Content{
			Kind: KindStats,
			Stats: []Stat{
				{Value: "7.2 GW", Label: "new wind by 2027"},
				{Value: "38%", Label: "evening price spread"},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "region-sites", Number: 4, Headline: "Candidate sites"},
		Content: Content{
			Kind: KindBullets,
			Points: []string{
				"Luleå industrial substation",
				"Trondheim harbour feeder",
				"Oulu wind corridor",
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "region-partners", Number: 5, Headline: "Local partners"},
		Content: Content{
			Kind: KindCards,
			Cards: []Card{
				{Title: "Utilities", Body: "Two regional DSOs in pilot discussions."},
				{Title: "Installers", Body: "Certified crews in each launch city."},
				{Title: "Regulators", Body: "Sandbox approval for ancillary services."},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "region-economics", Number: 7, Headline: "Site economics"},
		Content: Content{
			Kind: KindStatement,
			Body: "Winter peaks and hydro flexibility give the region the widest arbitrage window in Europe.",
		},
	},
	{
		Descriptor: Descriptor{ID: "region-timeline", Number: 8, Headline: "Timeline"},
		Content: Content{
			Kind:   KindBullets,
			Points: []string{"Permits filed in spring", "First unit energised before winter"},
		},
	},
	{
		Descriptor: Descriptor{ID: "ask", Number: 10, Headline: "Bring Meridian to your grid"},
		Content: Content{
			Kind:         KindClosing,
			CallToAction: "Talk to the Nordic team",
			Contact:      "nordics@meridiangrid.example",
		},
	},
}

var infrastructureSlides = []Slide{
	{
		Descriptor: Descriptor{ID: "cover", Number: 1, Headline: "Inside a Meridian site"},
		Content: Content{
			Kind:     KindTitle,
			Kicker:   "Infrastructure deep dive",
			Subtitle: "From cell to control room",
		},
	},
	{
		Descriptor: Descriptor{ID: "stack", Number: 2, Headline: "The site stack"},
		Content: Content{
			Kind: KindCards,
			Cards: []Card{
				{Title: "Cells", Body: "LFP chemistry, 6000 cycle warranty."},
				{Title: "Power", Body: "Bidirectional 1 MW inverters."},
				{Title: "Thermal", Body: "Closed-loop liquid cooling."},
				{Title: "Control", Body: "Edge controller with cellular failover."},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "safety", Number: 3, Headline: "Safety by construction"},
		Content: Content{
			Kind: KindBullets,
			Points: []string{
				"Per-module gas detection and venting",
				"Fire-rated enclosures with 2 m spacing",
				"Remote isolation from the operations centre",
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "performance", Number: 4, Headline: "Measured performance"},
		Content: Content{
			Kind: KindStats,
			Stats: []Stat{
				{Value: "89%", Label: "round-trip efficiency"},
				{Value: "140 ms", Label: "dispatch latency"},
				{Value: "0", Label: "lost-time incidents"},
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "telemetry", Number: 5, Headline: "Telemetry everywhere"},
		Content: Content{
			Kind: KindStatement,
			Body: "Every module reports voltage, temperature and state of health once a second; the fleet model flags drift weeks before it becomes a fault.",
		},
	},
	{
		Descriptor: Descriptor{ID: "deployment", Number: 6, Headline: "Deploying a site"},
		Content: Content{
			Kind: KindBullets,
			Points: []string{
				"Survey and grid study: 4 weeks",
				"Civil works: 3 weeks",
				"Delivery and commissioning: 10 days",
			},
		},
	},
	{
		Descriptor: Descriptor{ID: "lifecycle", Number: 7, Headline: "End of life, planned"},
		Content: Content{
			Kind: KindStatement,
			Body: "Cells leave our sites at 70% capacity for second-life duty, then go to certified recyclers with full chain of custody.",
		},
	},
	{
		Descriptor: Descriptor{ID: "ask", Number: 10, Headline: "See a site in person"},
		Content: Content{
			Kind:         KindClosing,
			Body:         "Tours run monthly at our reference site.",
			CallToAction: "Request a tour",
			Contact:      "sites@meridiangrid.example",
		},
	},
}

// Builtin returns the registry of built-in variants: default, region, infrastructure
func Builtin() *Registry {
	r, err := NewRegistry(
		mustVariant("default", "Meridian Grid", defaultSlides),
		mustVariant("region", "Meridian Grid: Nordics", regionSlides),
		mustVariant("infrastructure", "Meridian Grid: Infrastructure", infrastructureSlides),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func mustVariant(name, title string, list []Slide) *Variant {
	v, err := NewVariant(name, title, list)
	if err != nil {
		panic(err)
	}
	return v
}
