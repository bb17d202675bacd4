// Package local_gateway fornece uma emulação local do API Gateway da AWS
// para desenvolvimento: um servidor HTTP que casa requisições contra uma
// tabela de rotas derivada de um template de infraestrutura, traduz cada
// requisição em um evento proxy v1, entrega o evento a um backend de
// invocação de funções e traduz o resultado de volta em uma resposta HTTP
// com a mesma semântica do gateway gerenciado.
//
// Visão Geral:
// O módulo reproduz os comportamentos que importam na paridade local:
// 1. Precedência de rotas: literal > parametrizada ({nome}) > greedy-proxy ({nome+}).
// 2. Folding de headers e query strings nas formas single-value e multi-value.
// 3. Defaults do gateway: status 200, body "no data", Content-Type application/json.
// 4. Payloads binários via base64, dirigidos pelos binary media types.
// 5. Preflight CORS sintetizado, sem vazar headers CORS para respostas comuns.
// 6. Corpos literais de erro (Missing Authentication Token, etc).
//
// Sub-Pacotes Principais:
//
// 1. pkg/config:
//   - Tipos do template de rotas normalizado e do arquivo de configuração do servidor.
//   - UniversalLoader com fontes local, s3:// e dynamodb://.
//   - Resolução de stage variables via referências ssm:// e secretsmanager://.
//
// 2. pkg/gateway:
//   - RouteTable imutável construída uma única vez antes do serving.
//   - EventBuilder, ResponseTranslator e política CORS.
//   - GatewayServer com uma goroutine por conexão (sem head-of-line blocking).
//
// 3. pkg/invoker:
//   - Fronteira Invoker com backends HTTP (runtime local) e Lambda (AWS).
package local_gateway
