package seeders

import "inventory-system/internal/dto"

var employeesData = []dto.CreateEmployeeDTO{
	{Name: "Ayşe Yılmaz", Email: "ayse.yilmaz@example.com", Department: "Muhasebe", Position: "Uzman", MobilePhone: "05321234567", DeskPhone: "1201"},
	{Name: "Mehmet Kaya", Email: "mehmet.kaya@example.com", Department: "Bilgi İşlem", Position: "Sistem Yöneticisi", MobilePhone: "05339876543", DeskPhone: "1305"},
	{Name: "Zeynep Demir", Email: "zeynep.demir@example.com", Department: "İnsan Kaynakları", Position: "Müdür", DeskPhone: "1102"},
	{Name: "Can Öztürk", Email: "can.ozturk@example.com", Department: "Satış", Position: "Temsilci", MobilePhone: "05441112233"},
	{Name: "Elif Şahin", Department: "Satış", Position: "Stajyer"},
}

var equipmentData = []dto.CreateEquipmentDTO{
	{
		Category: "Laptop", SerialNumber: "DL5420-0001", Brand: "Dell", Model: "Latitude 5420",
		WifiMac: "3C:22:FB:10:AA:01", CPU: "Intel i5-1145G7", RAM: "16GB", Storage: "512GB SSD",
		Accessories: []dto.AccessoryInputDTO{
			{AccessoryType: "Wireless Mouse", AccessoryName: "Logitech M185"},
			{AccessoryType: "Adapter", AccessoryName: "Dell 65W şarj adaptörü"},
		},
	},
	{
		Category: "Laptop", SerialNumber: "HP840-0002", Brand: "HP", Model: "EliteBook 840 G8",
		WifiMac: "3C:22:FB:10:AA:02", CPU: "Intel i7-1165G7", RAM: "32GB", Storage: "1TB SSD",
	},
	{
		Category: "Desktop", SerialNumber: "OPT7090-0003", Brand: "Dell", Model: "OptiPlex 7090",
		LanMac: "B0:7B:25:00:10:03", CPU: "Intel i7-10700", GPU: "Intel UHD 630", RAM: "16GB", Storage: "512GB SSD",
		Accessories: []dto.AccessoryInputDTO{
			{AccessoryType: "Wired Keyboard", AccessoryName: "Dell KB216"},
			{AccessoryType: "Wired Mouse", AccessoryName: "Dell MS116"},
		},
	},
	{Category: "Monitor", SerialNumber: "P2422H-0004", Brand: "Dell", Model: "P2422H"},
	{
		Category: "Mobile Phone", SerialNumber: "IMEI356789100000005", Brand: "Samsung", Model: "Galaxy A54",
		Accessories: []dto.AccessoryInputDTO{
			{AccessoryType: "Charger", AccessoryName: "Samsung 25W"},
			{AccessoryType: "Case", AccessoryName: "Silikon kılıf"},
		},
	},
	{Category: "Tablet", SerialNumber: "IPAD9-0006", Brand: "Apple", Model: "iPad 9"},
	{Category: "Other", Brand: "TP-Link", Model: "UE300", Description: "USB Ethernet adaptörü"},
}

// assignmentsData - пары индексов (сотрудник, устройство) из наборов выше
var assignmentsData = []struct {
	Employee  int
	Equipment int
	Notes     string
	Returned  bool
}{
	{Employee: 0, Equipment: 0, Notes: "İşe başlangıç zimmeti"},
	{Employee: 1, Equipment: 2, Notes: "Sistem odası"},
	{Employee: 1, Equipment: 4},
	{Employee: 3, Equipment: 1, Notes: "Saha ziyaretleri için", Returned: true},
}
