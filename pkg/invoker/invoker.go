package invoker

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
)

// ErrInvocationFailed sinaliza que o backend não conseguiu produzir um
// resultado (crash, timeout, função desconhecida). O gateway traduz para
// 502 sem vazar detalhe interno ao cliente.
var ErrInvocationFailed = errors.New("invocation failed")

// Invoker é a fronteira com o backend de execução de funções.
//
// Invoke é síncrono e pode levar dezenas de segundos; o gateway não impõe
// deadline própria além da que o transporte configurar. O payload
// retornado é cru e validado pelo Response Translator.
type Invoker interface {
	Invoke(ctx context.Context, function string, event events.APIGatewayProxyRequest) ([]byte, error)
}
