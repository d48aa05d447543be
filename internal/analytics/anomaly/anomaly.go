// Package anomaly classifies a heart-rate value against the animal's own
// history using a normal approximation of the reference readings.
package anomaly

import (
	"fmt"
	"strconv"
)

// Tier is the rarity class of a classified value
type Tier string

const (
	TierNormal           Tier = "normal"            // z < 1
	TierSlightlyUnusual  Tier = "levemente_incomum" // 1 <= z < 2
	TierUnusual          Tier = "incomum"           // 2 <= z < 3
	TierRare             Tier = "raro"              // z >= 3
	TierInvalid          Tier = "valor_invalido"    // outside the sanity band, not scored
	TierInsufficientData Tier = "dados_insuficientes"
)

// Classification is the result of scoring one value. Probability, ZScore,
// Title and Interpretation are absent for invalid values and insufficient data.
type Classification struct {
	Value          float64  `json:"valor"`
	Mean           *float64 `json:"media"`
	StdDev         *float64 `json:"desvio_padrao"`
	ZScore         *float64 `json:"z_score,omitempty"`
	Probability    *float64 `json:"probabilidade"`
	Tier           Tier     `json:"classificacao"`
	Title          string   `json:"titulo,omitempty"`
	Interpretation string   `json:"interpretacao,omitempty"`
	Message        string   `json:"mensagem,omitempty"`
}

// Scored reports whether a probability was computed.
func (c Classification) Scored() bool {
	return c.Probability != nil
}

// Alerting reports whether the value deserves an alert.
func (c Classification) Alerting() bool {
	return c.Tier == TierRare || c.Tier == TierInvalid
}

type tierText struct {
	title    string
	template string // %s value, %.2f probability
}

var tierTexts = map[Tier]tierText{
	TierNormal: {
		title:    "Dentro do esperado",
		template: "Um batimento de %s bpm está dentro da faixa habitual do animal. Valores como este ocorrem em cerca de %.2f%% das medições.",
	},
	TierSlightlyUnusual: {
		title:    "Levemente incomum",
		template: "Um batimento de %s bpm é um pouco diferente do habitual. Valores tão afastados da média ocorrem em cerca de %.2f%% das medições.",
	},
	TierUnusual: {
		title:    "Incomum",
		template: "Um batimento de %s bpm é incomum para este animal. Valores tão afastados da média ocorrem em apenas %.2f%% das medições.",
	},
	TierRare: {
		title:    "Raro / anormal",
		template: "Um batimento de %s bpm é raro para este animal e pode indicar uma condição anormal. Valores assim ocorrem em %.2f%% das medições.",
	},
}

// TierFor maps an absolute z-score to its tier.
func TierFor(z float64) Tier {
	switch {
	case z < 1:
		return TierNormal
	case z < 2:
		return TierSlightlyUnusual
	case z < 3:
		return TierUnusual
	default:
		return TierRare
	}
}

// Title returns the fixed human-readable title of a scored tier.
func (t Tier) Title() string {
	return tierTexts[t].title
}

func interpret(t Tier, value, probability float64) string {
	text, ok := tierTexts[t]
	if !ok {
		return ""
	}
	return fmt.Sprintf(text.template, strconv.FormatFloat(value, 'f', -1, 64), probability)
}
