// Package application contém os casos de uso do buffer de mensagens.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Submit(ctx, msg) devolve o erro de admissão do buffer e
// registra log/estatística; Throttle.Decide(key) devolve uma Decision.
package application
