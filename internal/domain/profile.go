package domain

// ============================================================
// Cliente / Perfil
// ============================================================

// UserProfile holds the client record returned by GET /client.
// Field names follow the UniBus API payload (Portuguese keys).
type UserProfile struct {
	Name         string `json:"nome"`
	CPF          string `json:"cpf"`
	Email        string `json:"email"`
	Phone        string `json:"telefone"`
	BirthDate    string `json:"data_nascimento"`
	CEP          string `json:"cep"`
	City         string `json:"municipio"`
	Neighborhood string `json:"bairro"`
	Street       string `json:"logradouro"`
	HouseNumber  string `json:"n_casa"`
}

// Address is the subset of the ViaCEP payload the app consumes.
type Address struct {
	CEP          string `json:"cep"`
	UF           string `json:"uf"`
	City         string `json:"localidade"`
	Neighborhood string `json:"bairro"`
	Street       string `json:"logradouro"`
}

// Durable store keys. These mirror the keys the mobile shell used, so a
// migrated device keeps its session and avatar.
const (
	StoreKeyToken        = "userToken"
	StoreKeyProfileImage = "profileImageUrl"
)

// DefaultProfileImageURI is the bundled placeholder shown before the user
// uploads a picture. Resolving to it is the normal initial state, not an error.
const DefaultProfileImageURI = "asset://images/profile_placeholder.png"

// HouseNumberNotInformed is the sentinel shown when the API omits the field.
const HouseNumberNotInformed = "Não informado"
