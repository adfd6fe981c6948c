package catalogue

const (
	CategoryCuts      = "Cortes y Estilismo"
	CategoryColor     = "Color y Mechas"
	CategoryTreatment = "Tratamientos"
)

// DefaultServices is the salon menu.
var DefaultServices = []Service{
	{ID: "corte-mujer-styling", Name: "Corte Mujer & Styling", Category: CategoryCuts, Description: "Incluye lavado, masaje capilar y secado", Price: 95000},
	{ID: "corte-caballero", Name: "Corte Caballero", Category: CategoryCuts, Description: "Estilo clásico o moderno a tijera", Price: 55000},
	{ID: "peinado-evento", Name: "Peinado Evento", Category: CategoryCuts, Description: "Recogidos y ondas para ocasiones", Price: 120000, PriceFrom: true},
	{ID: "tinte-completo", Name: "Tinte Completo", Category: CategoryColor, Price: 160000},
	{ID: "retoque-raiz", Name: "Retoque de Raíz", Category: CategoryColor, Price: 90000},
	{ID: "balayage-ombre", Name: "Balayage / Ombré", Category: CategoryColor, Description: "Técnica a mano alzada, incluye matiz", Price: 320000, PriceFrom: true},
	{ID: "babylights", Name: "Babylights", Category: CategoryColor, Price: 280000, PriceFrom: true},
	{ID: "keratina-organica", Name: "Keratina Orgánica", Category: CategoryTreatment, Description: "Alisado y reducción de frizz (3-4 meses)", Price: 420000},
	{ID: "hidratacion-profunda", Name: "Hidratación Profunda", Category: CategoryTreatment, Price: 70000},
	{ID: "botox-capilar", Name: "Botox Capilar", Category: CategoryTreatment, Description: "Rejuvenecimiento de la fibra capilar", Price: 180000},
	{ID: "scalp-detox", Name: "Tratamiento Scalp Detox", Category: CategoryTreatment, Price: 80000},
}
