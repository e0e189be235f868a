package repository

// WarehouseSource define el puerto para cargar la lista de bodegas a sincronizar.
// Se relee al inicio de cada corrida: editar la fuente surte efecto en la
// siguiente corrida sin reiniciar. Una fuente ilegible degrada a lista vacía,
// nunca falla al caller.
type WarehouseSource interface {
	Load() []string
}
