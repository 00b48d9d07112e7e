package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// PrettyJson indenta o valor como JSON legível. Aceita tanto estruturas
// quanto []byte já serializado. Em caso de falha devolve a melhor
// representação possível em vez de string vazia
func PrettyJson(in any) string {
	raw, ok := in.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(in)
		if err != nil {
			return fmt.Sprintf("%v", in)
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "\t"); err != nil {
		return string(raw)
	}

	return out.String()
}

// ParseJSONStringSlice decodifica uma lista JSON de strings, como a usada na
// variável FB_AD_ACCOUNT_ID: ["123","456"]. O valor bruto não entra na
// mensagem de erro porque pode conter credenciais.
func ParseJSONStringSlice(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errors.Wrap(err, "valor não é uma lista JSON de strings")
	}

	return values, nil
}
