package domain

// DefaultSectionOrder returns a fresh copy of the default section ordering.
func DefaultSectionOrder() []string {
	return []string{
		SectionPersonalInfo,
		SectionProfessionalSummary,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionLanguages,
		SectionCertifications,
	}
}

func defaultSettings() CVSettings {
	return CVSettings{
		Template:     TemplateModern,
		PrimaryColor: "#3b82f6",
		Font:         FontInter,
		SectionOrder: DefaultSectionOrder(),
	}
}

// EmptyState is the state a clear resets to. Every list is empty and non-nil.
func EmptyState() AppState {
	return AppState{
		Data: CVData{
			Education:      []Education{},
			Experience:     []Experience{},
			Skills:         []Skill{},
			Languages:      []Language{},
			Certifications: []Certification{},
		},
		Settings: defaultSettings(),
	}
}

// ExampleState is the sample CV a session starts with.
func ExampleState() AppState {
	return AppState{
		Data: CVData{
			PersonalInfo: PersonalInfo{
				FullName: "María García López",
				Email:    "maria.garcia@email.com",
				Phone:    "+34 612 345 678",
				Location: "Madrid, España",
				Website:  "https://mariagarcia.dev",
				LinkedIn: "https://linkedin.com/in/mariagarcia",
				GitHub:   "https://github.com/mariagarcia",
			},
			ProfessionalSummary: "Desarrolladora Frontend con 3+ años de experiencia creando aplicaciones web modernas. " +
				"Especializada en React, TypeScript y Next.js con enfoque en UX y mejores prácticas de desarrollo.",
			Education: []Education{
				{
					ID:          "edu1",
					Institution: "Universidad Politécnica de Madrid",
					Degree:      "Grado en Ingeniería Informática",
					Field:       "Ingeniería de Software",
					StartDate:   "2018-09",
					EndDate:     "2022-06",
					Description: "Especialización en desarrollo web. Proyecto final: App de gestión con React y Node.js.",
				},
				{
					ID:          "edu2",
					Institution: "Platzi",
					Degree:      "Certificación Profesional",
					Field:       "React.js y Next.js",
					StartDate:   "2022-01",
					EndDate:     "2022-03",
					Description: "Curso intensivo sobre desarrollo frontend moderno.",
				},
			},
			Experience: []Experience{
				{
					ID:        "exp1",
					Company:   "TechSolutions S.L.",
					Position:  "Desarrolladora Frontend Senior",
					StartDate: "2023-03",
					Current:   true,
					Description: "Lidero desarrollo de interfaces con React, TypeScript y Tailwind CSS. " +
						"Mejoré rendimiento de aplicación principal en 40% mediante optimizaciones y lazy loading.",
					Location: "Madrid, España",
				},
				{
					ID:        "exp2",
					Company:   "StartupInnovate",
					Position:  "Desarrolladora Frontend",
					StartDate: "2022-07",
					EndDate:   "2023-02",
					Description: "Desarrollé aplicaciones web con React, Redux y Material-UI. " +
						"Migré codebase de JS a TypeScript, reduciendo bugs en 30%.",
					Location: "Madrid, España",
				},
			},
			Skills: []Skill{
				{ID: "skill1", Name: "React", Level: SkillAdvanced, Category: CategoryTechnical},
				{ID: "skill2", Name: "TypeScript", Level: SkillAdvanced, Category: CategoryTechnical},
				{ID: "skill3", Name: "Next.js", Level: SkillIntermediate, Category: CategoryTechnical},
				{ID: "skill4", Name: "JavaScript", Level: SkillExpert, Category: CategoryTechnical},
				{ID: "skill5", Name: "HTML/CSS", Level: SkillExpert, Category: CategoryTechnical},
				{ID: "skill6", Name: "Tailwind CSS", Level: SkillAdvanced, Category: CategoryTechnical},
				{ID: "skill7", Name: "Git", Level: SkillAdvanced, Category: CategoryTechnical},
				{ID: "skill8", Name: "Node.js", Level: SkillIntermediate, Category: CategoryTechnical},
				{ID: "skill9", Name: "Comunicación", Level: SkillAdvanced, Category: CategorySoft},
				{ID: "skill10", Name: "Trabajo en equipo", Level: SkillExpert, Category: CategorySoft},
				{ID: "skill11", Name: "Resolución de problemas", Level: SkillAdvanced, Category: CategorySoft},
				{ID: "skill12", Name: "Liderazgo", Level: SkillIntermediate, Category: CategorySoft},
			},
			Languages: []Language{
				{ID: "lang1", Name: "Español", Level: LanguageNative},
				{ID: "lang2", Name: "Inglés", Level: LanguageAdvanced},
				{ID: "lang3", Name: "Francés", Level: LanguageBasic},
			},
			Certifications: []Certification{
				{
					ID:     "cert1",
					Name:   "React Developer Certification",
					Issuer: "Meta",
					Date:   "2023-05",
					URL:    "https://coursera.org/verify/certificate123",
				},
				{
					ID:     "cert2",
					Name:   "AWS Cloud Practitioner",
					Issuer: "Amazon Web Services",
					Date:   "2023-08",
					URL:    "https://aws.amazon.com/verification/cert456",
				},
			},
		},
		Settings: defaultSettings(),
	}
}

// Clone returns a deep copy. Nil lists come back as empty lists.
func (s AppState) Clone() AppState {
	out := s
	out.Data.Education = append([]Education{}, s.Data.Education...)
	out.Data.Experience = append([]Experience{}, s.Data.Experience...)
	out.Data.Skills = append([]Skill{}, s.Data.Skills...)
	out.Data.Languages = append([]Language{}, s.Data.Languages...)
	out.Data.Certifications = append([]Certification{}, s.Data.Certifications...)
	out.Settings.SectionOrder = append([]string{}, s.Settings.SectionOrder...)
	return out
}

// WithDefaults returns a copy with every list non-nil and missing settings
// taken from the defaults. An explicitly empty section order is kept.
func (s AppState) WithDefaults() AppState {
	out := s.Clone()
	def := defaultSettings()
	if s.Settings.SectionOrder == nil {
		out.Settings.SectionOrder = def.SectionOrder
	}
	if out.Settings.Template == "" {
		out.Settings.Template = def.Template
	}
	if out.Settings.PrimaryColor == "" {
		out.Settings.PrimaryColor = def.PrimaryColor
	}
	if out.Settings.Font == "" {
		out.Settings.Font = def.Font
	}
	return out
}
