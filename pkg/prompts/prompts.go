package prompts

// PersonaKeyBase is the context entry included in every prompt.
const PersonaKeyBase = "base"

// Persona maps a context key (base, plus optional per-class keys) to static
// descriptive text. It is immutable after construction; administrative updates
// replace the whole map.
type Persona map[string]string

// DefaultPersona returns the narrator persona for Dark Station Chronicles.
func DefaultPersona() Persona {
	return Persona{
		PersonaKeyBase: "You are the AI game master for Dark Station Chronicles. " +
			"The game is set in an abandoned space station where mysterious events occur.",
		"cybernetic": "Use technical, precise language. Reference cybernetic enhancements " +
			"and technological solutions. Interface with station systems.",
		"psionic": "Use mystical, ethereal language. Reference psychic phenomena " +
			"and emotional undercurrents. Sense station mysteries.",
		"hunter": "Use tactical, survival-focused language. Reference tracking, " +
			"stealth, and resource management. Analyze station threats.",
	}
}
