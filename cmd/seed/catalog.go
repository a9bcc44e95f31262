package main

type seedCategory struct {
	Name        string
	Description string
}

type seedPart struct {
	Category    string
	Name        string
	SKU         string
	Price       string
	Stock       int
	Brand       string
	Model       string
	Year        int
	Description string
	Image       string
}

var demoCategories = []seedCategory{
	{"Frenos", "Componentes de frenado: discos, pastillas, cilindros maestros y esclavos."},
	{"Motor", "Piezas críticas del tren motriz: cilindros, válvulas, juntas, turbo, intercooler."},
	{"Suspensión", "Amortiguación y estabilidad: amortiguadores, resortes, barras estabilizadoras, bujes."},
	{"Iluminación", "Ópticas, lámparas y señalización: faros, pilotos, luces de marcha atrás."},
	{"Transmisión", "Componentes para caja: sincronizadores, embrague, platós, horquillas."},
	{"Electricidad", "Arranque, carga y sensores: alternadores, motores de arranque, baterías."},
	{"Carrocería", "Partes exteriores: guardabarros, puertas, capot, maleta, espejos."},
	{"Escape", "Sistema de escape: catalizadores, silenciadores, tubos, colectores."},
	{"Aceites y Fluidos", "Lubricantes, refrigerantes, líquido de frenos, anticongelante."},
	{"Refrigeración", "Radiadores, ventiladores, termostatos, mangueras de agua."},
	{"Aire", "Filtros de aire, turbos, entradas de aire, sistemas de admisión."},
	{"Ruedas y Neumáticos", "Llantas, neumáticos, centradores, válvulas, rines."},
	{"Dirección", "Cremalleras, bomba hidráulica, rótulas, terminales de dirección."},
	{"Interior", "Tapizados, alfombras, tapicería, volantes, cambios de velocidad."},
	{"Accesorios", "Kits aerodinámicos, spoilers, bulbos LED, pegatinas, protecciones."},
}

var demoParts = []seedPart{
	{"Frenos", "Disco de freno ventilado delantero", "BRK-TCOR18-01", "145.50", 38, "Toyota", "Corolla", 2018, "Disco ventilado con alto poder de disipación térmica para uso urbano y carretera.", "https://source.unsplash.com/featured/400x300?brake,disc"},
	{"Frenos", "Pastillas cerámicas delanteras", "BRK-HCIV20-02", "89.99", 52, "Honda", "Civic", 2020, "Pastillas cerámicas de baja emisión de polvo y excelente mordiente.", "https://source.unsplash.com/featured/400x300?brake,pads"},
	{"Frenos", "Kit discos + pastillas performance", "BRK-FMUS17-03", "320.00", 18, "Ford", "Mustang", 2017, "Kit de frenado deportivo con discos ranurados y pastillas de alto coeficiente.", "https://source.unsplash.com/featured/400x300?performance,brake"},
	{"Motor", "Filtro de aceite premium", "ENG-BMW3-19-01", "18.90", 120, "BMW", "Serie 3", 2019, "Filtro de alta eficiencia para motor turbo, recomendado para intervalos extendidos.", "https://source.unsplash.com/featured/400x300?oil,filter"},
	{"Motor", "Bujías iridium set x4", "ENG-AUA4-18-02", "74.50", 64, "Audi", "A4", 2018, "Bujías iridium para encendido eficiente y mejor respuesta en bajas rpm.", "https://source.unsplash.com/featured/400x300?spark,plug"},
	{"Motor", "Correa poly-V reforzada", "ENG-VGOL16-03", "42.00", 90, "Volkswagen", "Golf", 2016, "Correa reforzada para accesorios con mayor resistencia a la temperatura.", "https://source.unsplash.com/featured/400x300?engine,belt"},
	{"Suspensión", "Amortiguador delantero gas", "SUS-RCLI15-01", "110.00", 44, "Renault", "Clio", 2015, "Amortiguador con carga a gas para mejor control y confort.", "https://source.unsplash.com/featured/400x300?suspension,shock"},
	{"Suspensión", "Kit bujes suspensión trasera", "SUS-P20817-02", "65.75", 70, "Peugeot", "208", 2017, "Bujes de alta durabilidad para reducir vibraciones.", "https://source.unsplash.com/featured/400x300?suspension,bushing"},
	{"Iluminación", "Faros LED delanteros", "LGT-CCRU19-01", "280.00", 22, "Chevrolet", "Cruze", 2019, "Ópticas LED con mayor alcance y menor consumo.", "https://source.unsplash.com/featured/400x300?headlight,led"},
	{"Iluminación", "Lámparas halógenas H7", "LGT-NSEN20-02", "22.00", 140, "Nissan", "Sentra", 2020, "Par de lámparas H7 con luz blanca mejorada.", "https://source.unsplash.com/featured/400x300?car,light"},
	{"Transmisión", "Kit embrague completo", "TRN-SIMP18-01", "310.00", 16, "Subaru", "Impreza", 2018, "Kit embrague con plato, disco y rulemán.", "https://source.unsplash.com/featured/400x300?clutch,gear"},
	{"Transmisión", "Aceite de transmisión ATF", "TRN-MC19-02", "34.90", 80, "Mercedes-Benz", "Clase C", 2019, "Fluido ATF recomendado para cajas automáticas de 7 marchas.", "https://source.unsplash.com/featured/400x300?transmission,fluid"},
	{"Electricidad", "Batería 12V 60Ah AGM", "ELC-MAZ3-17-01", "140.00", 26, "Mazda", "3", 2017, "Batería AGM para sistemas Start/Stop con alta durabilidad.", "https://source.unsplash.com/featured/400x300?car,battery"},
	{"Electricidad", "Alternador 120A", "ELC-KSP21-02", "220.00", 12, "Kia", "Sportage", 2021, "Alternador de alta salida para mayor carga eléctrica.", "https://source.unsplash.com/featured/400x300?alternator,engine"},
	{"Carrocería", "Paragolpes delantero", "BDY-HTUC20-01", "260.00", 10, "Hyundai", "Tucson", 2020, "Paragolpes con terminación lisa listo para pintura.", "https://source.unsplash.com/featured/400x300?car,bumper"},
	{"Carrocería", "Espejo retrovisor eléctrico", "BDY-FCR22-02", "95.00", 24, "Fiat", "Cronos", 2022, "Espejo con comando eléctrico y carcasa negra texturada.", "https://source.unsplash.com/featured/400x300?car,mirror"},
	{"Aceites y Fluidos", "Aceite sintético 5W-30", "FLT-THIL21-01", "39.99", 150, "Toyota", "Hilux", 2021, "Aceite sintético recomendado para motores diésel modernos.", "https://source.unsplash.com/featured/400x300?engine,oil"},
	{"Aceites y Fluidos", "Refrigerante orgánico OAT", "FLT-FRAN20-02", "26.50", 95, "Ford", "Ranger", 2020, "Refrigerante de larga duración listo para usar.", "https://source.unsplash.com/featured/400x300?coolant,car"},
	{"Accesorios", "Tapetes premium de goma", "ACC-TCOR18-01", "48.00", 70, "Toyota", "Corolla", 2018, "Juego de tapetes con borde alto para mayor protección.", "https://source.unsplash.com/featured/400x300?car,interior"},
	{"Accesorios", "Porta equipaje techo", "ACC-VGOL16-02", "210.00", 15, "Volkswagen", "Golf", 2016, "Barras de techo aerodinámicas con cierre de seguridad.", "https://source.unsplash.com/featured/400x300?roof,rack"},
}

type seedUser struct {
	Username string
	Email    string
	Password string
	Staff    bool
}

var demoUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "adminpass", Staff: true},
	{Username: "juan", Email: "juan@example.com", Password: "secret"},
}
