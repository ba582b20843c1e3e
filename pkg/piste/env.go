package piste

// Environment is a PISTE deployment: where to get tokens and where the APIs live.
type Environment struct {
	Name     string
	TokenURL string
	APIURL   string
}

var (
	Sandbox = Environment{
		Name:     "sandbox",
		TokenURL: "https://sandbox-oauth.piste.gouv.fr/api/oauth/token",
		APIURL:   "https://sandbox-api.piste.gouv.fr",
	}
	Production = Environment{
		Name:     "production",
		TokenURL: "https://oauth.piste.gouv.fr/api/oauth/token",
		APIURL:   "https://api.piste.gouv.fr",
	}
)

// API paths below Environment.APIURL.
const (
	LegifrancePath = "/dila/legifrance/lf-engine-app"
	JudilibrePath  = "/cassation/judilibre/v1.0"
)

// EnvironmentFor returns Sandbox or Production.
func EnvironmentFor(sandbox bool) Environment {
	if sandbox {
		return Sandbox
	}
	return Production
}

// LegifranceURL is the Légifrance base URL in this environment.
func (e Environment) LegifranceURL() string { return e.APIURL + LegifrancePath }

// JudilibreURL is the JudiLibre base URL in this environment.
func (e Environment) JudilibreURL() string { return e.APIURL + JudilibrePath }
