package dataset

// BuiltinDenseRegion is the region that receives drift in the builtin map.
const BuiltinDenseRegion = "Karadeniz"

var builtinRegions = RegionTable{
	{Name: "Marmara", Locations: []string{"Balıkesir", "Bilecik", "Bursa", "Çanakkale", "Edirne", "İstanbul", "Kırklareli", "Kocaeli", "Sakarya", "Tekirdağ", "Yalova"}},
	{Name: "Ege", Locations: []string{"Afyonkarahisar", "Aydın", "Denizli", "İzmir", "Kütahya", "Manisa", "Muğla", "Uşak"}},
	{Name: "Akdeniz", Locations: []string{"Adana", "Antalya", "Burdur", "Hatay", "Isparta", "Kahramanmaraş", "Mersin", "Osmaniye"}},
	{Name: "İç Anadolu", Locations: []string{"Aksaray", "Ankara", "Çankırı", "Eskişehir", "Karaman", "Kayseri", "Kırıkkale", "Kırşehir", "Konya", "Nevşehir", "Niğde", "Sivas", "Yozgat"}},
	{Name: "Karadeniz", Locations: []string{"Amasya", "Artvin", "Bartın", "Bayburt", "Bolu", "Çorum", "Düzce", "Giresun", "Gümüşhane", "Karabük", "Kastamonu", "Ordu", "Rize", "Samsun", "Sinop", "Tokat", "Trabzon", "Zonguldak"}},
	{Name: "Doğu Anadolu", Locations: []string{"Ağrı", "Ardahan", "Bingöl", "Bitlis", "Elazığ", "Erzincan", "Erzurum", "Hakkari", "Iğdır", "Kars", "Malatya", "Muş", "Tunceli", "Van"}},
	{Name: "Güneydoğu Anadolu", Locations: []string{"Adıyaman", "Batman", "Diyarbakır", "Gaziantep", "Kilis", "Mardin", "Siirt", "Şanlıurfa", "Şırnak"}},
}

var builtinLayouts = LayoutTable{
	"Marmara":           {OriginX: 150, OriginY: 120, Columns: 4, GapX: 28, GapY: 24},
	"Ege":               {OriginX: 160, OriginY: 190, Columns: 4, GapX: 30, GapY: 28},
	"Akdeniz":           {OriginX: 250, OriginY: 230, Columns: 4, GapX: 30, GapY: 28},
	"İç Anadolu":        {OriginX: 250, OriginY: 150, Columns: 5, GapX: 28, GapY: 26},
	"Karadeniz":         {OriginX: 250, OriginY: 90, Columns: 6, GapX: 26, GapY: 22},
	"Doğu Anadolu":      {OriginX: 380, OriginY: 150, Columns: 4, GapX: 28, GapY: 26},
	"Güneydoğu Anadolu": {OriginX: 400, OriginY: 220, Columns: 3, GapX: 28, GapY: 26},
}

// BuiltinDense holds the default drift coefficients for BuiltinDenseRegion.
var BuiltinDense = Dense{Region: BuiltinDenseRegion, DriftX: 1.8, Amplitude: 3}

// Builtin returns the 7-region, 81-province dataset. It panics only if the
// embedded tables are inconsistent, which the package tests rule out.
func Builtin() *Dataset {
	ds, err := New(builtinRegions, builtinLayouts, WithDense(BuiltinDense))
	if err != nil {
		panic("dataset: builtin tables are invalid: " + err.Error())
	}
	return ds
}
