// Package domain define os tipos e contratos do buffer de mensagens.
//
// Este pacote não depende de net/http nem de implementações concretas:
// Message, Limits e os erros de rejeição são compartilhados entre a camada
// application, a infra (buffer em memória, limiter, stats) e o adapter HTTP.
package domain
