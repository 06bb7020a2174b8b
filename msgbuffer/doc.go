// Package msgbuffer expõe o buffer de mensagens via net/http.
//
// Visão geral (camadas):
//
//   - domain: Message, Limits, erros de admissão e contratos (sem net/http)
//   - application: casos de uso (Submit/List com log e stats, decisão do throttle)
//   - infra: buffer em memória, token bucket por cliente, stores de estatística
//   - msgbuffer (este pacote): rotas, gate de API key, throttle opcional,
//     decode/encode JSON e tradução de erro para status
//
// Fluxo de um POST /message:
//
//  1. Gate de API key (x-api-key), senão 401
//  2. Throttle por cliente, se habilitado, senão 429 com Retry-After
//  3. Decode do corpo (413/415/400/422 antes de tocar no buffer)
//  4. Service.Submit: 201, 413 (mensagem grande) ou 429 (cota do autor)
//
// GET /health nunca passa pelo gate nem pelo buffer.
package msgbuffer
