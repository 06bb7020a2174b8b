// Package infra contém implementações concretas para os contratos definidos
// no pacote domain.
//
// Exemplos:
//   - Buffer: o buffer de mensagens em memória (RWMutex + janela preguiçosa)
//   - LimiterStore: token bucket por chave usando golang.org/x/time/rate
//   - MemoryStatsStore / RedisStatsStore / PrometheusStatsStore: estatísticas de submit
package infra
