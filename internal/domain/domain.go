package domain

import "errors"

// ErrNotFound é devolvido pelos repositórios quando o registro não existe.
// Os casos de uso traduzem para um NotFoundError com mensagem própria.
var ErrNotFound = errors.New("record not found")
