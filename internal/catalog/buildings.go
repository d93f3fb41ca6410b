package catalog

func defaultBuildings() []Building {
	return []Building{
		// Walkways
		{ID: "path", Name: "Path", Category: CategoryPath, Price: 10, Width: 1, Height: 1, Visitable: true, AllowedOnPath: true, ContinuousBuild: true},
		{ID: "exit", Name: "Exit", Category: CategoryPath, Price: 0, Width: 1, Height: 1, Visitable: true, AllowedOnPath: true},

		// Attractions
		{ID: "carousel", Name: "Carousel", Category: CategoryAttraction, Price: 400, Income: 1.5, Width: 3, Height: 3, Satisfies: NeedFun, StatValue: 30, Visitable: true, AllowedOnPath: true},
		{ID: "ferris", Name: "Ferris Wheel", Category: CategoryAttraction, Price: 1200, Income: 0.4, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 50, Visitable: true, AllowedOnPath: true},
		{ID: "coaster", Name: "Roller Coaster", Category: CategoryAttraction, Price: 3000, Income: 1, Width: 3, Height: 2, Satisfies: NeedFun, StatValue: 80, Visitable: true, AllowedOnPath: true},
		{ID: "castle", Name: "Castle", Category: CategoryAttraction, Price: 5000, Income: 2, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 100, Visitable: true, AllowedOnPath: true},
		{ID: "slots", Name: "Slot Machines", Category: CategoryAttraction, Price: 600, Income: 0.25, Width: 3, Height: 3, Satisfies: NeedFun, StatValue: 15, Gambling: true, Visitable: true, AllowedOnPath: true},
		{ID: "shooting", Name: "Shooting Gallery", Category: CategoryAttraction, Price: 800, Income: 0.5, Width: 1, Height: 1, Satisfies: NeedFun, StatValue: 20, Gambling: true, Visitable: true, AllowedOnPath: true},
		{ID: "bumpers", Name: "Bumper Cars", Category: CategoryAttraction, Price: 900, Income: 0.6, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 35, Visitable: true, AllowedOnPath: true},
		{ID: "haunted", Name: "Haunted House", Category: CategoryAttraction, Price: 1400, Income: 0.7, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 60, Visitable: true, AllowedOnPath: true},
		{ID: "waterride", Name: "Water Ride", Category: CategoryAttraction, Price: 2200, Income: 1.1, Width: 3, Height: 2, Satisfies: NeedFun, StatValue: 70, Visitable: true, AllowedOnPath: true},
		{ID: "gokarts", Name: "Go-Karts", Category: CategoryAttraction, Price: 1800, Income: 0.9, Width: 3, Height: 2, Satisfies: NeedFun, StatValue: 55, Visitable: true, AllowedOnPath: true},

		// Shops
		{ID: "burger", Name: "Burger Stand", Category: CategoryShop, Price: 300, Income: 1, Width: 3, Height: 2, Satisfies: NeedSatiety, StatValue: 50, Visitable: true, AllowedOnPath: true},
		{ID: "pizza", Name: "Pizza Stand", Category: CategoryShop, Price: 350, Income: 1.2, Width: 3, Height: 2, Satisfies: NeedSatiety, StatValue: 60, Visitable: true, AllowedOnPath: true},
		{ID: "icecream", Name: "Ice Cream", Category: CategoryShop, Price: 200, Income: 0.8, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 10, Visitable: true, AllowedOnPath: true},
		{ID: "popcorn", Name: "Popcorn", Category: CategoryShop, Price: 150, Income: 0.6, Width: 2, Height: 2, Satisfies: NeedSatiety, StatValue: 20, Visitable: true, AllowedOnPath: true},
		{ID: "soda", Name: "Soda", Category: CategoryShop, Price: 150, Income: 0.5, Width: 2, Height: 2, Satisfies: NeedHydration, StatValue: 40, Visitable: true, AllowedOnPath: true},
		{ID: "coffee", Name: "Coffee", Category: CategoryShop, Price: 180, Income: 0.7, Width: 2, Height: 2, Satisfies: NeedEnergy, StatValue: 30, Visitable: true, AllowedOnPath: true},
		{ID: "gifts", Name: "Gift Shop", Category: CategoryShop, Price: 400, Income: 1.5, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 25, Visitable: true, AllowedOnPath: true},
		{ID: "balloons", Name: "Balloons", Category: CategoryShop, Price: 100, Income: 0.3, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 15, Visitable: true, AllowedOnPath: true},
		{ID: "taco", Name: "Taco Stand", Category: CategoryShop, Price: 320, Income: 1.1, Width: 3, Height: 2, Satisfies: NeedSatiety, StatValue: 55, Visitable: true, AllowedOnPath: true},
		{ID: "donut", Name: "Donuts", Category: CategoryShop, Price: 250, Income: 0.8, Width: 2, Height: 2, Satisfies: NeedSatiety, StatValue: 30, Visitable: true, AllowedOnPath: true},
		{ID: "souvenir", Name: "Souvenirs", Category: CategoryShop, Price: 450, Income: 1.6, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 20, Visitable: true, AllowedOnPath: true},
		{ID: "toilet", Name: "Toilet", Category: CategoryShop, Price: 100, Income: 0.5, Width: 1, Height: 1, Satisfies: NeedToilet, StatValue: 100, Visitable: true, AllowedOnPath: true, MaxVisits: 1300},

		// Decorations
		{ID: "fountain", Name: "Fountain", Category: CategoryDecoration, Price: 400, Width: 2, Height: 2, Satisfies: NeedFun, StatValue: 5, AllowedOnPath: true, ContinuousBuild: true},
		{ID: "tree", Name: "Tree", Category: CategoryDecoration, Price: 50, Width: 1, Height: 1, ContinuousBuild: true},
		{ID: "bench", Name: "Bench", Category: CategoryDecoration, Price: 50, Width: 1, Height: 1, Satisfies: NeedEnergy, StatValue: 40, Visitable: true, AllowedOnPath: true, MaxVisits: 1500, ContinuousBuild: true},
		{ID: "statue", Name: "Statue", Category: CategoryDecoration, Price: 300, Width: 1, Height: 1, Satisfies: NeedFun, StatValue: 8, AllowedOnPath: true, ContinuousBuild: true},
		{ID: "lamp", Name: "Lamp", Category: CategoryDecoration, Price: 120, Width: 1, Height: 1, Satisfies: NeedEnergy, StatValue: 5, AllowedOnPath: true, ContinuousBuild: true},
		{ID: "flowerbed", Name: "Flower Bed", Category: CategoryDecoration, Price: 90, Width: 1, Height: 1, Satisfies: NeedFun, StatValue: 6, AllowedOnPath: true, ContinuousBuild: true},

		// Terrain features, never offered in the shop
		{ID: "mountain", Name: "Mountain", Category: CategoryDecoration, Width: 7, Height: 7, Satisfies: NeedFun, StatValue: 2, AllowedOnPath: true, Hidden: true, Protected: true},
		{ID: "pond", Name: "Pond", Category: CategoryDecoration, Width: 7, Height: 7, Satisfies: NeedFun, StatValue: 3, AllowedOnPath: true, Hidden: true, Protected: true},

		// Services
		{ID: "parkMaintenance", Name: "Maintenance Workshop", Category: CategoryService, Price: 500, Width: 2, Height: 2, AllowedOnPath: true, Workers: 1},
	}
}
