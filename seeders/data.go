package seeders

var inventoryItemsData = []struct {
	Name     string
	Category string
	Stock    int
	Unit     string
}{
	{Name: "Koper Besar", Category: "bagasi", Stock: 200, Unit: "pcs"},
	{Name: "Koper Kabin", Category: "bagasi", Stock: 200, Unit: "pcs"},
	{Name: "Tas Paspor", Category: "aksesoris", Stock: 300, Unit: "pcs"},
	{Name: "Kain Ihram", Category: "pakaian", Stock: 250, Unit: "set"},
	{Name: "Mukena", Category: "pakaian", Stock: 250, Unit: "pcs"},
	{Name: "Seragam Batik", Category: "pakaian", Stock: 300, Unit: "pcs"},
	{Name: "Buku Manasik", Category: "perlengkapan", Stock: 500, Unit: "pcs"},
	{Name: "Syal Identitas", Category: "aksesoris", Stock: 400, Unit: "pcs"},
}

// checklistData maps item names to the package types that require them.
var checklistData = []struct {
	ItemName    string
	PackageType string
	IsRequired  bool
}{
	{"Koper Besar", "reguler", true},
	{"Kain Ihram", "reguler", true},
	{"Seragam Batik", "reguler", true},
	{"Buku Manasik", "reguler", true},
	{"Syal Identitas", "reguler", false},

	{"Koper Besar", "plus", true},
	{"Koper Kabin", "plus", true},
	{"Kain Ihram", "plus", true},
	{"Seragam Batik", "plus", true},
	{"Buku Manasik", "plus", true},

	{"Koper Besar", "vip", true},
	{"Koper Kabin", "vip", true},
	{"Tas Paspor", "vip", true},
	{"Kain Ihram", "vip", true},
	{"Mukena", "vip", true},
	{"Seragam Batik", "vip", true},
	{"Buku Manasik", "vip", true},
}

var autoReplyRulesData = []struct {
	Keyword  string
	Reply    string
	Priority int
}{
	{
		Keyword:  "assalamualaikum",
		Reply:    "Wa'alaikumsalam! Terima kasih sudah menghubungi kami. Ada yang bisa kami bantu seputar paket umroh?",
		Priority: 10,
	},
	{
		Keyword:  "harga",
		Reply:    "Untuk informasi harga, silakan sebutkan kode paket yang diminati (contoh: UMR001) atau tanyakan jadwal keberangkatan yang diinginkan.",
		Priority: 20,
	},
	{
		Keyword:  "jadwal",
		Reply:    "Jadwal keberangkatan terdekat kami tersedia setiap bulan. Tim kami akan segera menghubungi Anda dengan detail lengkapnya.",
		Priority: 20,
	},
	{
		Keyword:  "daftar",
		Reply:    "Untuk pendaftaran, mohon siapkan KTP, paspor, dan pas foto. Tim kami akan memandu proses selanjutnya.",
		Priority: 30,
	},
}

var packageTemplatesData = []struct {
	Code     string
	Name     string
	Message  string
	PriceMin float64
	PriceMax float64
}{
	{
		Code:     "UMR001",
		Name:     "Umroh Reguler 9 Hari",
		Message:  "Paket UMR001 - Umroh Reguler 9 Hari. Hotel bintang 3 dekat Masjidil Haram, pesawat langsung, mulai Rp 28.500.000. Hubungi tim kami untuk jadwal keberangkatan.",
		PriceMin: 28500000,
		PriceMax: 31000000,
	},
	{
		Code:     "UMR002",
		Name:     "Umroh Plus Turki 12 Hari",
		Message:  "Paket UMR002 - Umroh Plus Turki 12 Hari. Termasuk city tour Istanbul, hotel bintang 4, mulai Rp 38.000.000.",
		PriceMin: 38000000,
		PriceMax: 42000000,
	},
	{
		Code:     "UMR003",
		Name:     "Umroh VIP 9 Hari",
		Message:  "Paket UMR003 - Umroh VIP 9 Hari. Hotel bintang 5 pandangan Ka'bah, layanan eksklusif, mulai Rp 55.000.000.",
		PriceMin: 55000000,
		PriceMax: 60000000,
	},
}
